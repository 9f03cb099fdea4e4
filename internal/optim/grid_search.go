package optim

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"
	"runtime"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

var ErrNoCandidates = errors.New("optim: no candidate produced a finite cost")

// Objective scores one parameter set; lower is better. A returned error
// discards the candidate without stopping the search.
type Objective func(ctx context.Context, params map[string]float64) (float64, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	limit      int
	logger     *log.Logger
}

// NewGridSearch searches the cartesian product of ranges; ranges[i] holds
// the values tried for params[i].
func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{
		paramNames: params,
		ranges:     ranges,
		limit:      runtime.GOMAXPROCS(0),
		logger:     log.Default(),
	}
}

func (g *GridSearch) WithLogger(l *log.Logger) *GridSearch {
	g.logger = l
	return g
}

// WithConcurrency bounds the number of objectives evaluated at once.
func (g *GridSearch) WithConcurrency(n int) *GridSearch {
	if n > 0 {
		g.limit = n
	}
	return g
}

type SearchResult struct {
	Params    map[string]float64
	Cost      float64
	Evaluated int
	Discarded int
}

func (g *GridSearch) Search(ctx context.Context, objective Objective) (*SearchResult, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, fmt.Errorf("optim: %d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}
	for i, r := range g.ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("optim: empty range for %s", g.paramNames[i])
		}
	}

	var (
		mu   sync.Mutex
		best = &SearchResult{Cost: math.Inf(1)}
	)
	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(g.limit)

	g.enumerate(0, map[string]float64{}, func(params map[string]float64) bool {
		if ectx.Err() != nil {
			return false
		}
		eg.Go(func() error {
			cost, err := objective(ectx, params)
			if ctxErr := ectx.Err(); ctxErr != nil {
				return ctxErr
			}

			mu.Lock()
			defer mu.Unlock()
			best.Evaluated++
			if err != nil || math.IsNaN(cost) || math.IsInf(cost, 0) {
				best.Discarded++
				g.logger.Debug("discarded candidate", "params", params, "cost", cost, "err", err)
				return nil
			}
			if cost < best.Cost {
				best.Cost = cost
				best.Params = params
			}
			return nil
		})
		return true
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if best.Params == nil {
		return best, ErrNoCandidates
	}
	g.logger.Info("grid search done", "evaluated", best.Evaluated, "discarded", best.Discarded, "cost", best.Cost)
	return best, nil
}

// enumerate calls visit with each grid point until visit returns false.
func (g *GridSearch) enumerate(depth int, current map[string]float64, visit func(map[string]float64) bool) bool {
	if depth == len(g.paramNames) {
		return visit(current)
	}
	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := maps.Clone(current)
		next[name] = val
		if !g.enumerate(depth+1, next, visit) {
			return false
		}
	}
	return true
}

// Linspace returns n evenly spaced values on [lo, hi].
func Linspace(lo, hi float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}
