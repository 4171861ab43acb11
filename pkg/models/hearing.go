package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// ThresholdPoint is the measured threshold for one calibration frequency.
// Heard is false when no tone in the sweep was perceived; ThresholdDB is then 0.
type ThresholdPoint struct {
	Frequency   float64 `json:"frequency" doc:"Calibration frequency in Hz"`
	ThresholdDB float64 `json:"threshold_db" doc:"Quietest perceived level in dBFS"`
	Heard       bool    `json:"heard" doc:"Whether any tone in the sweep was heard"`
}

// HearingThreshold is the ordered result of a calibration sweep
type HearingThreshold []ThresholdPoint

// FrequencyPoint is one (frequency, gain) knot of a profile curve
type FrequencyPoint struct {
	Frequency float64 `json:"frequency" doc:"Frequency in Hz"`
	GainDB    float64 `json:"gain_db" doc:"Gain in dB"`
}

// HearingProfile maps a frequency in Hz to a compensation gain in dB.
// Its JSON form is an object keyed by the decimal frequency, e.g. {"250": 20}.
type HearingProfile map[float64]float64

// FormatFrequency renders a frequency the way it appears as a profile key
func FormatFrequency(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Frequencies returns the profile frequencies in ascending order
func (p HearingProfile) Frequencies() []float64 {
	freqs := make([]float64, 0, len(p))
	for f := range p {
		freqs = append(freqs, f)
	}
	sort.Float64s(freqs)
	return freqs
}

// Points returns the profile as frequency points sorted by frequency
func (p HearingProfile) Points() []FrequencyPoint {
	freqs := p.Frequencies()
	points := make([]FrequencyPoint, len(freqs))
	for i, f := range freqs {
		points[i] = FrequencyPoint{Frequency: f, GainDB: p[f]}
	}
	return points
}

// MarshalJSON writes the profile with keys in ascending frequency order
func (p HearingProfile) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range p.Frequencies() {
		gain := p[f]
		if math.IsNaN(gain) || math.IsInf(gain, 0) {
			return nil, fmt.Errorf("invalid gain %v at %s Hz", gain, FormatFrequency(f))
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(FormatFrequency(f))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatFloat(gain, 'f', -1, 64))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON parses a profile document. Gains are taken verbatim.
func (p *HearingProfile) UnmarshalJSON(data []byte) error {
	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(HearingProfile, len(raw))
	for key, gain := range raw {
		f, err := strconv.ParseFloat(key, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("invalid profile frequency %q", key)
		}
		if _, dup := out[f]; dup {
			return fmt.Errorf("duplicate profile frequency %q", key)
		}
		out[f] = gain
	}
	*p = out
	return nil
}
