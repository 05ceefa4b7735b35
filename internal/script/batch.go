package script

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// RunAll runs every scenario concurrently, one vector per scenario. Traces
// are returned in input order; the error joins all scenario failures.
func RunAll(ctx context.Context, scenarios []*Scenario, log zerolog.Logger) ([]*Trace, error) {
	traces := make([]*Trace, len(scenarios))
	errs := make([]error, len(scenarios))

	var wg sync.WaitGroup
	for i, sc := range scenarios {
		wg.Add(1)
		go func(idx int, sc *Scenario) {
			defer wg.Done()
			traces[idx], errs[idx] = Run(ctx, sc, log)
			if errs[idx] != nil {
				errs[idx] = fmt.Errorf("%s: %w", sc.Name, errs[idx])
			}
		}(i, sc)
	}

	wg.Wait()

	return traces, errors.Join(errs...)
}
