// Package implementing ensemble statistics of per-jet log likelihoods.
//
// Standard deviations are population (not sample) deviations throughout.
package stats

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/showerlab/jetlh/internal/jet"
)

var (
	ErrEmptyInput   = errors.New("no values")
	ErrBadGroupSize = errors.New("group size must be positive")
	ErrNotScored    = errors.New("jet has no log likelihood sum")
)

type Summary struct {
	LogLH      []float64 // per-jet sums in input order
	GroupMeans []float64 // mean of every complete group of consecutive jets
	Sigma      float64   // std of GroupMeans
	StatSigma  float64   // std of LogLH / sqrt(len(LogLH))
}

// Summarizes the log likelihood sums of all jets in sets. Jets are grouped
// in input order; the last incomplete group is dropped.
func Ensemble(sets jet.Collection, groupSize int) (*Summary, error) {
	if groupSize <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrBadGroupSize, groupSize)
	}
	jets := sets.Flatten()
	values := make([]float64, len(jets))
	for i, j := range jets {
		if !j.Scored {
			return nil, fmt.Errorf("%w, jet %d", ErrNotScored, i)
		}
		values[i] = j.SumLogLH
	}
	sigma, err := GroupStd(values, groupSize)
	if err != nil {
		return nil, err
	}
	statSigma, err := StatSigma(values)
	if err != nil {
		return nil, err
	}
	return &Summary{LogLH: values, GroupMeans: GroupMeans(values, groupSize), Sigma: sigma, StatSigma: statSigma}, nil
}

// Means of consecutive groups of step values; the remainder is dropped
func GroupMeans(values []float64, step int) []float64 {
	n := len(values) - len(values)%step
	means := make([]float64, 0, n/step)
	for i := 0; i < n; i += step {
		means = append(means, stat.Mean(values[i:i+step], nil))
	}
	return means
}

// Std of the means of consecutive groups of step values
func GroupStd(values []float64, step int) (float64, error) {
	if step <= 0 {
		return 0, fmt.Errorf("%w, got %d", ErrBadGroupSize, step)
	}
	if len(values) < step {
		return 0, fmt.Errorf("%w, %d values for groups of %d", ErrEmptyInput, len(values), step)
	}
	_, std := stat.PopMeanStdDev(GroupMeans(values, step), nil)
	return std, nil
}

// Statistical error of the mean of values
func StatSigma(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptyInput
	}
	_, std := stat.PopMeanStdDev(values, nil)
	return stat.StdErr(std, float64(len(values))), nil
}
