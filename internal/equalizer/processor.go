package equalizer

import (
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/RMahshie/aurelius/internal/audio"
)

// Processor equalizes fixed-size blocks with a GainCurve. Blocks are transformed
// independently with no windowing or overlap. A Processor is not safe for
// concurrent use; create one per stream.
type Processor struct {
	curve *GainCurve
	fft   *fourier.FFT
	work  []float64
	coeff []complex128
	scale float64
}

var _ audio.BlockProcessor = (*Processor)(nil)

// NewProcessor allocates the transform buffers for curve's block size
func NewProcessor(curve *GainCurve) *Processor {
	n := curve.BlockSize()
	return &Processor{
		curve: curve,
		fft:   fourier.NewFFT(n),
		work:  make([]float64, n),
		coeff: make([]complex128, curve.Len()),
		scale: 1 / float64(n),
	}
}

// Process writes the equalized, clipped form of in to out. Blocks whose length
// differs from the curve's block size are passed through clipped.
func (p *Processor) Process(in, out []float32) {
	if len(in) != len(p.work) || len(out) != len(p.work) {
		for i := range out {
			if i < len(in) {
				out[i] = clip(float64(in[i]))
			} else {
				out[i] = 0
			}
		}
		return
	}

	for i, s := range in {
		p.work[i] = float64(s)
	}
	p.fft.Coefficients(p.coeff, p.work)
	for k := range p.coeff {
		p.coeff[k] *= complex(p.curve.gains[k], 0)
	}
	// the inverse transform is unnormalized
	p.fft.Sequence(p.work, p.coeff)
	for i, v := range p.work {
		out[i] = clip(v * p.scale)
	}
}

func clip(v float64) float32 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	case v != v:
		return 0
	}
	return float32(v)
}
