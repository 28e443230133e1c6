package events

const (
	KindVolumeStepped  Kind = "volume.stepped"
	KindVolumeRestored Kind = "volume.restored"
)

// VolumeStepped reports one lower-by-one adjustment. Volume is the value read
// right before the adjustment.
type VolumeStepped struct {
	Base
	Step   int
	Volume int
}

func NewVolumeStepped(runID string, step, volume int) VolumeStepped {
	return VolumeStepped{Base: NewBase(KindVolumeStepped, runID), Step: step, Volume: volume}
}

type VolumeRestored struct {
	Base
	From int
	To   int
}

func NewVolumeRestored(runID string, from, to int) VolumeRestored {
	return VolumeRestored{Base: NewBase(KindVolumeRestored, runID), From: from, To: to}
}
