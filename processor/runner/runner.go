package runner

import (
	"context"
	"fmt"
	"rmrk-indexer/database"
	"rmrk-indexer/logger"
	processorContext "rmrk-indexer/processor/context"
	"rmrk-indexer/processor/engine"
	"rmrk-indexer/processor/shared"
	"time"

	"github.com/pkg/errors"
)

type remarkProcessor interface {
	Process(record *database.Remark) engine.Result
}

// Single worker applying pending remarks in block order. Only one runner may work on a database.
type Runner struct {
	db        runnerDB
	processor remarkProcessor
	metrics   *shared.ProcessorMetrics

	batchSize int
	interval  time.Duration
	truncate  bool
}

func NewRunner(ctx processorContext.ProcessorContext, metrics *shared.ProcessorMetrics) *Runner {
	cfg := ctx.Config().Processor
	return &Runner{
		db:        &runnerDBGorm{g: ctx.DB()},
		processor: engine.New(ctx.DB()),
		metrics:   metrics,
		batchSize: cfg.BatchSize,
		interval:  cfg.Interval(),
		truncate:  cfg.TruncateOnStart,
	}
}

// Processes batches until ctx is cancelled. Errors are logged and the next batch is tried
// after the interval.
func (r *Runner) Run(ctx context.Context) error {
	if r.truncate {
		logger.Info("Truncating derived data")
		if err := r.db.TruncateDerivedData(); err != nil {
			return errors.Wrap(err, "truncating derived data")
		}
	}

	logger.Info("Starting remark processor, batch size %d, interval %v", r.batchSize, r.interval)
	for {
		count, err := r.safeProcessBatch(ctx)
		if err != nil {
			logger.Error("Remark processor error %v", err)
		}

		// Sleep only if there is nothing left to do
		wait := r.interval
		if err == nil && count >= r.batchSize {
			wait = 0
		}
		select {
		case <-ctx.Done():
			logger.Info("Stopped remark processor")
			return nil
		case <-time.After(wait):
		}
	}
}

func (r *Runner) safeProcessBatch(ctx context.Context) (count int, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic while processing batch: %v", p)
		}
	}()
	return r.ProcessBatch(ctx)
}

// Processes up to a batch of pending remarks and returns their number. Each status is
// stored right after its remark is processed.
func (r *Runner) ProcessBatch(ctx context.Context) (int, error) {
	startTime := time.Now()

	remarks, err := r.db.FetchPendingRemarks(r.batchSize)
	if err != nil {
		return 0, errors.Wrap(err, "fetching pending remarks")
	}

	count := 0
	for _, remark := range remarks {
		if ctx.Err() != nil {
			break
		}
		result := r.processor.Process(remark)
		remark.Processed = result.Status
		remark.Interaction = string(result.Action)
		remark.SpecVersion = string(result.Version)
		if err := r.db.UpdateRemarkStatus(remark); err != nil {
			return count, errors.Wrapf(err, "updating status of remark %d", remark.ID)
		}
		count++
		if r.metrics != nil {
			r.metrics.ObserveRemark(remark, outcome(result))
		}
	}

	if count > 0 {
		elapsed := time.Since(startTime).Milliseconds()
		if r.metrics != nil {
			r.metrics.ObserveBatch(elapsed)
		}
		logger.Info("Processed %d remarks up to block %d in %d ms", count, remarks[count-1].BlockNumber, elapsed)
	}
	return count, nil
}

func outcome(result engine.Result) string {
	switch {
	case result.Status == database.RemarkMalformed:
		return shared.OutcomeMalformed
	case result.Skipped:
		return shared.OutcomeSkipped
	case result.Failed:
		return shared.OutcomeFailed
	default:
		return shared.OutcomeApplied
	}
}
