package optimizer

import (
	"context"
	"errors"

	"github.com/stuartshay/route-optimizer/internal/calculator"
)

// DefaultBruteForceThreshold is the largest destination count for which the
// facade picks Brute-Force automatically.
const DefaultBruteForceThreshold = 6

// Options tunes solver selection
type Options struct {
	// BruteForceThreshold: auto selection uses Brute-Force up to this many destinations.
	BruteForceThreshold int
	// ExactSearchLimit caps a forced Brute-Force run; larger inputs use Nearest-Neighbor.
	ExactSearchLimit int
	// TwoOptPassFactor bounds 2-Opt at factor * n² passes.
	TwoOptPassFactor int
}

// DefaultOptions returns the stock selection thresholds
func DefaultOptions() Options {
	return Options{
		BruteForceThreshold: DefaultBruteForceThreshold,
		ExactSearchLimit:    DefaultExactSearchLimit,
		TwoOptPassFactor:    DefaultTwoOptPassFactor,
	}
}

// Optimizer selects and runs a route solver. The zero value is not usable;
// construct it with New.
type Optimizer struct {
	opts Options
}

// New creates an Optimizer. Non-positive option values take their defaults,
// and the auto threshold never exceeds the exact search limit.
func New(opts Options) *Optimizer {
	defaults := DefaultOptions()
	if opts.BruteForceThreshold <= 0 {
		opts.BruteForceThreshold = defaults.BruteForceThreshold
	}
	if opts.ExactSearchLimit <= 0 {
		opts.ExactSearchLimit = defaults.ExactSearchLimit
	}
	if opts.TwoOptPassFactor <= 0 {
		opts.TwoOptPassFactor = defaults.TwoOptPassFactor
	}
	if opts.BruteForceThreshold > opts.ExactSearchLimit {
		opts.BruteForceThreshold = opts.ExactSearchLimit
	}
	return &Optimizer{opts: opts}
}

// Options returns the effective options
func (o *Optimizer) Options() Options {
	return o.opts
}

// Optimize orders points[1:] starting from points[0]. An empty points slice
// is treated as an origin with no destinations.
func (o *Optimizer) Optimize(points []calculator.Point, algorithm Algorithm) Result {
	return o.OptimizeMatrix(calculator.BuildMatrix(points), algorithm)
}

// OptimizeMatrix runs the solver chosen by Select on a prebuilt matrix
func (o *Optimizer) OptimizeMatrix(m calculator.DistanceMatrix, algorithm Algorithm) Result {
	res, _ := o.OptimizeMatrixContext(context.Background(), m, algorithm)
	return res
}

// OptimizeMatrixContext is OptimizeMatrix bounded by ctx. A cancelled 2-Opt
// search returns its best tour so far with the context error; the other
// solvers only check ctx before they start.
func (o *Optimizer) OptimizeMatrixContext(ctx context.Context, m calculator.DistanceMatrix, algorithm Algorithm) (Result, error) {
	selected := o.Select(m.Destinations(), algorithm)
	if selected == AlgorithmTwoOpt {
		return TwoOptContext(ctx, m, o.opts.TwoOptPassFactor)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	switch selected {
	case AlgorithmBruteForce:
		res, err := BruteForce(m, o.opts.ExactSearchLimit)
		if errors.Is(err, ErrExactSearchTooLarge) {
			// Select already guards the limit; kept so the facade never fails.
			return NearestNeighbor(m), nil
		}
		return res, nil
	default:
		return NearestNeighbor(m), nil
	}
}

// Select resolves the solver that will actually run for the given number of
// destinations:
//   - auto: Brute-Force up to BruteForceThreshold, otherwise 2-Opt
//   - brute_force above ExactSearchLimit: Nearest-Neighbor
//   - unknown names: Nearest-Neighbor
func (o *Optimizer) Select(destinations int, algorithm Algorithm) Algorithm {
	switch algorithm {
	case AlgorithmAuto:
		if destinations <= o.opts.BruteForceThreshold {
			return AlgorithmBruteForce
		}
		return AlgorithmTwoOpt
	case AlgorithmBruteForce:
		if destinations > o.opts.ExactSearchLimit {
			return AlgorithmNearestNeighbor
		}
		return AlgorithmBruteForce
	case AlgorithmTwoOpt:
		return AlgorithmTwoOpt
	default:
		return AlgorithmNearestNeighbor
	}
}
