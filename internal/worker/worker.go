// Package worker runs floorplan conversions concurrently with a bounded
// number of in-flight jobs.
package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/scene"
)

// Job names one floorplan to convert. AnnotPath may be empty.
type Job struct {
	ID         string
	OutputPath string
	AnnotPath  string
}

// Outcome is the result of one job. Err is set both for conversion failures
// and for jobs abandoned on context cancellation.
type Outcome struct {
	Job      Job
	Result   *scene.Result
	Err      error
	Started  time.Time
	Finished time.Time
}

// Process converts one job. Implementations must be safe for concurrent
// calls.
type Process func(ctx context.Context, job Job) (*scene.Result, error)

// Pool fans jobs out over Concurrency goroutines.
type Pool struct {
	Concurrency int
	Process     Process
	Log         *zap.Logger
}

// Run converts every job and returns outcomes in job order. Cancelling the
// context stops new jobs from starting; jobs already running finish and the
// remainder report the context error.
func (p *Pool) Run(ctx context.Context, jobs []Job) []Outcome {
	concurrency := p.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	outcomes := make([]Outcome, len(jobs))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			outcomes[i] = Outcome{Job: job, Err: err}
			continue
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(i int, job Job) {
			defer wg.Done()
			defer func() { <-sem }()

			started := time.Now()
			result, err := p.Process(ctx, job)
			outcomes[i] = Outcome{
				Job:      job,
				Result:   result,
				Err:      err,
				Started:  started,
				Finished: time.Now(),
			}
			if err != nil {
				p.Log.Error("conversion failed",
					zap.String("floorplan", job.ID),
					zap.Error(err))
				return
			}
			p.Log.Info("conversion finished",
				zap.String("floorplan", job.ID),
				zap.Duration("took", time.Since(started)))
		}(i, job)
	}
	wg.Wait()
	return outcomes
}
