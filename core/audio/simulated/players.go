package simulated

import (
	"github.com/d4rk/musicsleeptimer/core/audio"
	"github.com/google/uuid"
)

// Player is a simulated media app. Players that honor focus loss hold a
// permanent focus grant and pause when they lose it; they do not resume when
// focus comes back.
type Player struct {
	service *Service

	id              string
	usage           audio.Usage
	contentType     audio.ContentType
	state           audio.PlayerState
	honorsFocusLoss bool
	focus           *audio.FocusRequest
}

type PlayerOption func(*Player)

func WithUsage(usage audio.Usage) PlayerOption {
	return func(p *Player) { p.usage = usage }
}

func WithContentType(contentType audio.ContentType) PlayerOption {
	return func(p *Player) { p.contentType = contentType }
}

// IgnoringFocusLoss makes the player keep playing when it loses focus.
func IgnoringFocusLoss() PlayerOption {
	return func(p *Player) { p.honorsFocusLoss = false }
}

// StartPlayer adds a playing player. Registered playback callbacks are
// notified.
func (s *Service) StartPlayer(opts ...PlayerOption) *Player {
	player := &Player{
		service:         s,
		id:              uuid.NewString(),
		usage:           audio.UsageMedia,
		contentType:     audio.ContentTypeMusic,
		state:           audio.PlayerStateStarted,
		honorsFocusLoss: true,
	}
	for _, opt := range opts {
		opt(player)
	}

	var loser *audio.FocusRequest
	var change audio.FocusChange

	s.mu.Lock()
	s.players = append(s.players, player)
	if player.honorsFocusLoss {
		player.focus = &audio.FocusRequest{
			Gain:          audio.FocusGainPermanent,
			Attributes:    audio.Attributes{Usage: player.usage, ContentType: player.contentType},
			OnFocusChange: player.onFocusChange,
		}
		loser, change = s.pushFocusLocked(player.focus)
	}
	s.mu.Unlock()

	notifyFocusChange(loser, change)
	s.notifyPlaybackChanged()
	return player
}

func (p *Player) ID() string { return p.id }

func (p *Player) State() audio.PlayerState {
	p.service.mu.Lock()
	defer p.service.mu.Unlock()
	return p.state
}

func (p *Player) Pause()  { p.setState(audio.PlayerStatePaused) }
func (p *Player) Stop()   { p.setState(audio.PlayerStateStopped) }
func (p *Player) Resume() { p.setState(audio.PlayerStateStarted) }

// Release removes the player from the delivered playback configurations.
func (p *Player) Release() { p.setState(audio.PlayerStateReleased) }

func (p *Player) setState(state audio.PlayerState) {
	p.service.mu.Lock()
	changed := p.state != state
	p.state = state
	p.service.mu.Unlock()

	if changed {
		p.service.notifyPlaybackChanged()
	}
}

func (p *Player) onFocusChange(change audio.FocusChange) {
	if change.IsLoss() {
		p.Pause()
	}
}

// StopAll stops every player and notifies playback callbacks once.
func (s *Service) StopAll() {
	s.mu.Lock()
	changed := false
	for _, player := range s.players {
		if player.state == audio.PlayerStateStarted {
			player.state = audio.PlayerStateStopped
			changed = true
		}
	}
	s.mu.Unlock()

	if changed {
		s.notifyPlaybackChanged()
	}
}
