// Package analysis finds periodicity in scalar series sampled once per
// tick, such as the mean heat of the field.
//
//   - [PowerSpectrum]: one-sided power of the mean-removed series
//   - [DominantPeriod]: period of the strongest non-DC frequency bin
//   - [AutocorrPeriod]: lag of the strongest autocorrelation peak
//
// The spectral estimate is limited to n/k for integer bins k, so it is
// approximate for periods that do not divide the series length. The
// autocorrelation estimate is an integer lag and is the one to compare
// against a detected frame cycle.
package analysis
