package audio

import "math"

// DBToLinear converts a decibel value to a linear amplitude factor
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// Tone synthesizes a sine tone of the given frequency, duration and linear amplitude
func Tone(frequency, amplitude, seconds float64, sampleRate int) []float32 {
	n := int(float64(sampleRate) * seconds)
	samples := make([]float32, n)
	for i := range samples {
		t := float64(i) / float64(sampleRate)
		samples[i] = float32(amplitude * math.Sin(2*math.Pi*frequency*t))
	}
	return samples
}
