package coordinator

import (
	"context"
	"fmt"

	"resumepanel/internal/errors"
	"resumepanel/internal/experts"
	"resumepanel/internal/types"

	"golang.org/x/sync/errgroup"
)

// collectAll runs every expert concurrently and returns one result per
// dimension. A failing or panicking expert is replaced by its degraded
// default; siblings are never cancelled.
func collectAll(ctx context.Context, all []experts.Expert, actx *types.AnalysisContext, logger *errors.Logger) map[types.Dimension]*types.ExpertResult {
	results := make([]*types.ExpertResult, len(all))

	// No WithContext: a failed expert must not cancel its siblings.
	var g errgroup.Group
	for i, e := range all {
		g.Go(func() error {
			results[i] = isolate(ctx, e, actx, logger)
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[types.Dimension]*types.ExpertResult, len(all))
	for i, e := range all {
		out[e.Dimension()] = results[i]
	}
	return out
}

// isolate evaluates one expert and maps any failure to the fallback shape.
func isolate(ctx context.Context, e experts.Expert, actx *types.AnalysisContext, logger *errors.Logger) (result *types.ExpertResult) {
	d := e.Dimension()
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("expert panicked: %v", r)
			logger.Warn("Expert analysis degraded", "dimension", d, "error", err.Error())
			result = experts.Fallback(d, err)
		}
	}()

	res, err := e.Evaluate(ctx, actx)
	if err == nil && res == nil {
		err = fmt.Errorf("expert returned no result")
	}
	if err != nil {
		logger.Warn("Expert analysis degraded", "dimension", d, "error", err.Error())
		return experts.Fallback(d, err)
	}
	res.Dimension = d
	return res
}
