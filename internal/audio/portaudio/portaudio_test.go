package portaudio

import (
	"testing"

	pa "github.com/gordonklaus/portaudio"
	"github.com/stretchr/testify/assert"

	"github.com/RMahshie/aurelius/internal/audio"
)

func TestStatusFromFlags(t *testing.T) {
	assert.Equal(t, audio.Status(0), statusFromFlags(0))
	assert.Equal(t, audio.InputUnderflow|audio.OutputOverflow,
		statusFromFlags(pa.InputUnderflow|pa.OutputOverflow))
	assert.Equal(t, audio.Status(0), statusFromFlags(pa.PrimingOutput))
}

func TestNew_InvalidParameters(t *testing.T) {
	_, err := New(0, 1024)
	assert.Error(t, err)

	_, err = New(44100, 0)
	assert.Error(t, err)
}
