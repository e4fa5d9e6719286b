package sweep

// scheduler.go owns the bounded pool of execution slots. Test cases are
// dispatched FIFO in catalog order, each paired with a device from the
// allocator, and results are collected back into catalog order no
// matter when individual runs complete.

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/splatsweep/splatsweep/model"
)

// Scheduler runs a catalog through the invoker over a fixed pool of
// slots. One slot runs one subprocess to completion before accepting
// the next test case; there is no work stealing and no retry.
type Scheduler struct {
	Logger  zerolog.Logger
	Invoker Invoker
	// Number of concurrent slots, values below 1 mean fully serial
	Parallelism int
	// Device count for round-robin assignment, 0 disables pinning
	DeviceCount int
	// OnComplete, when set, is called after each collected run with the
	// record and the completed/total counts. Calls may come from any
	// slot goroutine.
	OnComplete func(rec model.RunRecord, completed, total int)
}

type job struct {
	index  int
	tc     model.TestCase
	device int
}

// Run executes the sweep. The context gates dispatch only: cancelling
// it stops new test cases from starting, lets in-flight subprocesses
// finish (they already hold a device), and marks everything never
// dispatched as skipped. The returned result always holds exactly one
// record per test case, in catalog order.
func (s *Scheduler) Run(ctx context.Context, cases []model.TestCase) *model.SweepResult {
	parallelism := s.Parallelism
	if parallelism < 1 {
		parallelism = 1
	}

	s.Logger.Info().
		Int("tests", len(cases)).
		Int("parallelism", parallelism).
		Int("devices", s.DeviceCount).
		Msg("Starting sweep")

	records := make([]model.RunRecord, len(cases))
	jobs := make(chan job)
	var completed atomic.Int64

	var wg sync.WaitGroup
	for slot := 0; slot < parallelism; slot++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				// In-flight runs are intentionally detached from the
				// dispatch context; only the per-run timeout applies.
				rec := s.Invoker.Run(context.Background(), j.tc, j.device)
				records[j.index] = rec
				done := int(completed.Add(1))
				if s.OnComplete != nil {
					s.OnComplete(rec, done, len(cases))
				}
			}
		}()
	}

	// The dense run index is assigned here, once per dispatch. With no
	// retries it coincides with the catalog index.
	dispatched := 0
feed:
	for i, tc := range cases {
		if ctx.Err() != nil {
			break
		}
		j := job{index: i, tc: tc, device: AssignDevice(i, s.DeviceCount)}
		select {
		case jobs <- j:
			dispatched++
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	for i := dispatched; i < len(cases); i++ {
		records[i] = model.RunRecord{
			TestCase: cases[i],
			Device:   model.DeviceNone,
			Status:   model.StatusSkipped,
		}
	}

	result := &model.SweepResult{
		Records: records,
		Partial: dispatched < len(cases),
	}

	if result.Partial {
		s.Logger.Warn().
			Int("dispatched", dispatched).
			Int("total", len(cases)).
			Msg("Sweep interrupted before all test cases were dispatched")
	} else {
		s.Logger.Info().
			Int("success", result.CountStatus(model.StatusSuccess)).
			Int("total", len(cases)).
			Msg("Sweep complete")
	}

	return result
}
