package orchestration

import (
	"testing"

	"github.com/d4rk/musicsleeptimer/core/audio/simulated"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestoreVolumeIsIdempotent(t *testing.T) {
	svc := simulated.New(simulated.WithVolume(2))

	from, restored, err := restoreVolume(svc, 9)
	require.NoError(t, err)
	assert.True(t, restored)
	assert.Equal(t, 2, from)

	_, restored, err = restoreVolume(svc, 9)
	require.NoError(t, err)
	assert.False(t, restored)

	assert.Equal(t, 9, svc.Volume())
	assert.Equal(t, 1, svc.Calls().SetStreamVolume)
}

func TestRestoreVolumeReportsRejectedWrite(t *testing.T) {
	svc := simulated.New(simulated.WithVolume(2), simulated.WithMaxVolume(10))

	_, restored, err := restoreVolume(svc, 12)

	assert.Error(t, err)
	assert.False(t, restored)
	assert.Equal(t, 2, svc.Volume())
}
