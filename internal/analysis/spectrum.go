package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// SheddingSpectrum computes the one-sided power spectrum of a uniformly
// sampled signal. The mean is removed and a Hann window applied before
// the transform. Returned frequencies are in cycles per unit time.
func SheddingSpectrum(signal []float64, dt float64) (freqs, power []float64, err error) {
	n := len(signal)
	if n < 4 {
		return nil, nil, ErrTooFewSamples
	}
	if dt <= 0 {
		return nil, nil, ErrTooFewSamples
	}

	mean := 0.0
	for _, v := range signal {
		mean += v
	}
	mean /= float64(n)

	windowed := make([]float64, n)
	for i, v := range signal {
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		windowed[i] = (v - mean) * w
	}

	spectrum := fft.FFTReal(windowed)

	half := n / 2
	freqs = make([]float64, half)
	power = make([]float64, half)
	for k := 0; k < half; k++ {
		freqs[k] = float64(k) / (float64(n) * dt)
		power[k] = cmplx.Abs(spectrum[k])
	}
	return freqs, power, nil
}

// DominantFrequency picks the non-DC spectrum peak.
func DominantFrequency(signal []float64, dt float64) (float64, error) {
	freqs, power, err := SheddingSpectrum(signal, dt)
	if err != nil {
		return 0, err
	}
	best := 1
	for k := 2; k < len(power); k++ {
		if power[k] > power[best] {
			best = k
		}
	}
	return freqs[best], nil
}
