package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

const (
	Epsilon = 1e-6
)

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Description summarises a sample of per-game values, such as disc margins.
type Description struct {
	N      int     `yaml:"n"`
	Mean   float64 `yaml:"mean"`
	Stdev  float64 `yaml:"stdev"`
	StdErr float64 `yaml:"stderr"`
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
}

// Describe computes the sample statistics of xs. The standard deviation is
// the unbiased one; it is 0 for fewer than two values.
func Describe(xs []float64) Description {
	d := Description{N: len(xs)}
	if len(xs) == 0 {
		return d
	}
	d.Min, d.Max = xs[0], xs[0]
	for _, x := range xs[1:] {
		d.Min = math.Min(d.Min, x)
		d.Max = math.Max(d.Max, x)
	}
	if len(xs) == 1 {
		d.Mean = xs[0]
		return d
	}
	d.Mean, d.Stdev = stat.MeanStdDev(xs, nil)
	d.StdErr = stat.StdErr(d.Stdev, float64(len(xs)))
	return d
}

// ConfidenceInterval returns the interval around the mean at the given
// confidence, a number from 0 to 100.
func (d Description) ConfidenceInterval(confidence float64) (float64, float64) {
	z := ZVal(confidence)
	return d.Mean - z*d.StdErr, d.Mean + z*d.StdErr
}
