// sleeptimer runs one music fade out against a simulated audio service. It
// plays the part of the platform timer: after --after it delivers the sleep
// action, then prints every step of the run as it happens.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	orchestration "github.com/d4rk/musicsleeptimer/core"
	"github.com/d4rk/musicsleeptimer/core/audio"
	"github.com/d4rk/musicsleeptimer/core/audio/miniaudio"
	"github.com/d4rk/musicsleeptimer/core/audio/portaudio"
	"github.com/d4rk/musicsleeptimer/core/audio/simulated"
	"github.com/d4rk/musicsleeptimer/core/taskqueue"
)

type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string { return e.err.Error() }
func (e exitError) ExitCode() int { return e.code }
func (e exitError) Unwrap() error { return e.err }

func main() {
	if err := run(); err != nil {
		var coder interface{ ExitCode() int }
		if errors.As(err, &coder) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	after       time.Duration
	stopAfter   time.Duration
	volume      int
	fixedVolume bool
	denyFocus   bool
	ignoreFocus bool
	players     int
	legacy      bool
	modern      bool
	hostProbe   string
	verbose     bool
}

func run() error {
	var opts options

	flagSet := pflag.NewFlagSet("sleeptimer", pflag.ContinueOnError)
	flagSet.DurationVar(&opts.after, "after", 0, "delay before the sleep action is delivered")
	flagSet.DurationVar(&opts.stopAfter, "stop-after", 0, "stop the simulated players on their own after this delay (0 keeps them playing)")
	flagSet.IntVar(&opts.volume, "volume", simulated.DefaultMaxVolume/2, "initial music volume")
	flagSet.BoolVar(&opts.fixedVolume, "fixed-volume", false, "simulate a device whose volume cannot be changed")
	flagSet.BoolVar(&opts.denyFocus, "deny-focus", false, "deny the audio focus request")
	flagSet.BoolVar(&opts.ignoreFocus, "ignore-focus", false, "players keep playing when they lose audio focus")
	flagSet.IntVar(&opts.players, "players", 1, "number of music players to start")
	flagSet.BoolVar(&opts.legacy, "legacy", false, "deliver playback configurations with player state only")
	flagSet.BoolVar(&opts.modern, "modern", false, "offer the supported-output-types query")
	flagSet.StringVar(&opts.hostProbe, "host-probe", "", "check this host's real outputs instead of the simulated ones (miniaudio or portaudio)")
	flagSet.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return sleep(ctx, opts)
}

func sleep(ctx context.Context, opts options) error {
	service, players := newService(opts)

	orchestratorOpts := []orchestration.OrchestratorOption{
		orchestration.WithEventHandler(newPrinter(os.Stdout).print),
	}
	if opts.legacy {
		orchestratorOpts = append(orchestratorOpts, orchestration.WithActivityProbe(audio.PlayerStateActivityProbe{}))
	}
	switch opts.hostProbe {
	case "":
	case "miniaudio":
		orchestratorOpts = append(orchestratorOpts, orchestration.WithDeviceProbe(miniaudio.NewDeviceProbe()))
	case "portaudio":
		orchestratorOpts = append(orchestratorOpts, orchestration.WithDeviceProbe(portaudio.NewDeviceProbe()))
	default:
		return exitError{code: 2, err: fmt.Errorf("unknown host probe %q", opts.hostProbe)}
	}
	orchestrator := orchestration.NewOrchestrator(service, orchestratorOpts...)

	queue := taskqueue.New(ctx)
	defer queue.Close()

	slog.Info("music playing", "players", players, "volume", opts.volume)
	if opts.stopAfter > 0 {
		time.AfterFunc(opts.after+opts.stopAfter, func() {
			slog.Info("players stopping on their own")
			service.StopAll()
		})
	}

	if opts.after > 0 {
		slog.Info("sleep timer armed", "after", opts.after)
		select {
		case <-time.After(opts.after):
		case <-ctx.Done():
			slog.Info("sleep timer cancelled")
			return nil
		}
	}

	job, err := orchestration.HandleTrigger(queue, orchestrator, orchestration.NewSleepAudioTrigger(orchestration.ActionSleepAudio, time.Now()))
	if err != nil {
		return err
	}

	<-job.Done()
	slog.Info("sleep work finished", "job_id", job.ID, "state", job.State().String(), "volume", service.Volume())
	if err := job.Err(); err != nil {
		return exitError{code: 1, err: err}
	}
	return nil
}

// stopper is the part of the simulated service the command drives directly.
type stopper interface {
	audio.Service
	StopAll()
	Volume() int
}

func newService(opts options) (stopper, int) {
	serviceOpts := []simulated.Option{simulated.WithVolume(opts.volume)}
	if opts.fixedVolume {
		serviceOpts = append(serviceOpts, simulated.WithFixedVolume())
	}
	if opts.denyFocus {
		serviceOpts = append(serviceOpts, simulated.WithDenyFocus())
	}
	if opts.legacy {
		serviceOpts = append(serviceOpts, simulated.WithLegacyPlayerState())
	}

	var service stopper
	var base *simulated.Service
	if opts.modern {
		modern := simulated.NewModern(nil, serviceOpts...)
		service, base = modern, modern.Service
	} else {
		base = simulated.New(serviceOpts...)
		service = base
	}

	var playerOpts []simulated.PlayerOption
	if opts.ignoreFocus {
		playerOpts = append(playerOpts, simulated.IgnoringFocusLoss())
	}
	for range max(opts.players, 0) {
		base.StartPlayer(playerOpts...)
	}

	return service, max(opts.players, 0)
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `sleeptimer fades out and stops simulated music playback.

The command starts simulated music players, waits --after, then delivers
the sleep action. The fade out lowers the music volume one step per second,
asks playing apps to stop, and puts the volume back once playback stopped.

Usage:
  sleeptimer [flags]

Examples:
  # Fade out right away
  sleeptimer

  # Players that ignore focus loss and stop by themselves
  sleeptimer --ignore-focus --stop-after 3s

  # Focus denied: fall back to the coarse activity flag
  sleeptimer --deny-focus --volume 4

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
