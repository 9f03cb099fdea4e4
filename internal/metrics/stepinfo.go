package metrics

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInsufficientSamples = errors.New("metrics: need at least two matching time and value samples")
	ErrNonFinite           = errors.New("metrics: response contains NaN or Inf")
)

const (
	// SettlingBand is the ±2% band around the final value.
	SettlingBand = 0.02
	riseLow      = 0.1
	riseHigh     = 0.9
	finalTol     = 1e-6
)

// Info holds step-response characteristics measured from samples. The
// last sample is taken as the final value.
type Info struct {
	FinalValue   float64
	Peak         float64
	PeakTime     float64
	Overshoot    float64 // percent; 0 when the final value is ~0
	RiseTime     float64 // 10-90%
	SettlingTime float64 // 2%
	// Risen is false when the response never reached 90% of its final value.
	Risen bool
}

func StepInfo(times, values []float64) (Info, error) {
	if len(times) != len(values) || len(times) < 2 {
		return Info{}, fmt.Errorf("%w: %d times, %d values", ErrInsufficientSamples, len(times), len(values))
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Info{}, fmt.Errorf("%w at t=%g", ErrNonFinite, times[i])
		}
	}

	final := values[len(values)-1]
	info := Info{FinalValue: final, Peak: math.Inf(-1)}

	for i, v := range values {
		if v > info.Peak {
			info.Peak, info.PeakTime = v, times[i]
		}
	}
	if math.Abs(final) > finalTol {
		info.Overshoot = (info.Peak - final) / final * 100
	}

	info.RiseTime, info.Risen = riseTime(times, values, final)
	info.SettlingTime = settlingTime(times, values, final)
	return info, nil
}

func riseTime(times, values []float64, final float64) (float64, bool) {
	if math.Abs(final) <= finalTol {
		return 0, false
	}
	low, high := -1, -1
	for i, v := range values {
		r := v / final
		if low < 0 && r >= riseLow {
			low = i
		}
		if r >= riseHigh {
			high = i
			break
		}
	}
	if low < 0 || high < 0 {
		return 0, false
	}
	return times[high] - times[low], true
}

// settlingTime is the time of the first sample after the last one outside
// the band. A response that never leaves the band settles at 0.
func settlingTime(times, values []float64, final float64) float64 {
	band := SettlingBand * math.Abs(final)
	last := -1
	for i, v := range values {
		if math.Abs(v-final) > band {
			last = i
		}
	}
	if last < 0 {
		return 0
	}
	if last+1 < len(times) {
		return times[last+1]
	}
	return times[last]
}

func (i Info) String() string {
	return fmt.Sprintf("final=%.4f peak=%.4f@%.4fs Mp=%.2f%% Tr=%.4fs Ts=%.4fs",
		i.FinalValue, i.Peak, i.PeakTime, i.Overshoot, i.RiseTime, i.SettlingTime)
}
