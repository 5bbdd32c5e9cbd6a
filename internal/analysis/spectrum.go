package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

var (
	ErrShortSeries = errors.New("analysis: series too short")
	ErrFlatSeries  = errors.New("analysis: series has no variation")
)

const minSamples = 4

func demean(series []float64) []float64 {
	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))
	out := make([]float64, len(series))
	for i, v := range series {
		out[i] = v - mean
	}
	return out
}

// PowerSpectrum returns |X_k|^2 for k in [0, n/2] of the mean-removed series.
func PowerSpectrum(series []float64) []float64 {
	if len(series) == 0 {
		return nil
	}
	x := fft.FFTReal(demean(series))
	ps := make([]float64, len(x)/2+1)
	for k := range ps {
		a := cmplx.Abs(x[k])
		ps[k] = a * a
	}
	return ps
}

// DominantPeriod returns n/k for the non-DC bin k with the most power.
func DominantPeriod(series []float64) (period, power float64, err error) {
	if len(series) < minSamples {
		return 0, 0, ErrShortSeries
	}
	ps := PowerSpectrum(series)
	best := 0
	for k := 1; k < len(ps); k++ {
		if ps[k] > power {
			best, power = k, ps[k]
		}
	}
	if best == 0 || power < 1e-18 {
		return 0, 0, ErrFlatSeries
	}
	return float64(len(series)) / float64(best), power, nil
}

// Autocorrelation returns the biased autocorrelation of the mean-removed
// series for lags [0, n), normalized so lag 0 is 1.
func Autocorrelation(series []float64) ([]float64, error) {
	n := len(series)
	if n < minSamples {
		return nil, ErrShortSeries
	}
	padded := make([]float64, 2*n)
	copy(padded, demean(series))

	x := fft.FFTReal(padded)
	for i, v := range x {
		x[i] = v * cmplx.Conj(v)
	}
	r := fft.IFFT(x)

	zero := real(r[0])
	if zero < 1e-18 {
		return nil, ErrFlatSeries
	}
	ac := make([]float64, n)
	for lag := range ac {
		ac[lag] = real(r[lag]) / zero
	}
	return ac, nil
}

// AutocorrPeriod returns the lag in [1, maxLag] with the highest
// autocorrelation. maxLag <= 0 searches half the series.
func AutocorrPeriod(series []float64, maxLag int) (int, error) {
	ac, err := Autocorrelation(series)
	if err != nil {
		return 0, err
	}
	if maxLag <= 0 || maxLag >= len(ac) {
		maxLag = len(ac) / 2
	}
	best, bestVal := 0, math.Inf(-1)
	for lag := 1; lag <= maxLag; lag++ {
		if ac[lag] > bestVal {
			best, bestVal = lag, ac[lag]
		}
	}
	return best, nil
}
