package distribution

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// DensityOptions controls the evaluation grid of a kernel density estimate.
type DensityOptions struct {
	Min    float64
	Max    float64
	Points int
	// FallbackBandwidth is used when the sample has no spread.
	FallbackBandwidth float64
}

// DefaultDensityOptions covers the 0–5 star range.
func DefaultDensityOptions() DensityOptions {
	return DensityOptions{Min: 0, Max: 5, Points: 256, FallbackBandwidth: 0.1}
}

// Point is one evaluation of a density curve.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Curve is a smoothed density of one sample.
type Curve struct {
	Label     string  `json:"label"`
	Bandwidth float64 `json:"bandwidth"`
	Points    []Point `json:"points"`
}

// Density estimates the distribution of s with a Gaussian kernel and
// Scott's rule bandwidth, σ·n^(-1/5) with σ the sample standard deviation.
func Density(s Sample, opts DensityOptions) (Curve, error) {
	if err := s.check(); err != nil {
		return Curve{}, err
	}
	if opts.Points < 2 {
		return Curve{}, errors.New("density: need at least 2 grid points")
	}
	if !(opts.Max > opts.Min) {
		return Curve{}, errors.New("density: grid max must exceed min")
	}

	bandwidth := ScottBandwidth(s.Ratings)
	if math.IsNaN(bandwidth) || bandwidth <= 0 {
		bandwidth = opts.FallbackBandwidth
	}
	if bandwidth <= 0 {
		return Curve{}, errors.New("density: sample has no spread and no fallback bandwidth is set")
	}

	kernels := make([]distuv.Normal, len(s.Ratings))
	for i, v := range s.Ratings {
		kernels[i] = distuv.Normal{Mu: v, Sigma: bandwidth}
	}

	n := float64(len(kernels))
	step := (opts.Max - opts.Min) / float64(opts.Points-1)
	points := make([]Point, opts.Points)
	for i := range points {
		x := opts.Min + float64(i)*step
		var sum float64
		for _, k := range kernels {
			sum += k.Prob(x)
		}
		points[i] = Point{X: x, Y: sum / n}
	}
	return Curve{Label: s.Label, Bandwidth: bandwidth, Points: points}, nil
}

// ScottBandwidth returns σ·n^(-1/5). It is NaN for fewer than two values.
func ScottBandwidth(values []float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	sd := stat.StdDev(values, nil)
	return sd * math.Pow(float64(len(values)), -0.2)
}
