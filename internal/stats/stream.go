package stats

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/inodb/rvqc/internal/mutation"
)

// RecordSource yields mutation records; nil, nil marks the end.
// A *mutation.FormatError skips the current record.
type RecordSource interface {
	Next() (*mutation.Record, error)
}

// Options configures AggregateStream.
type Options struct {
	// Workers is the number of shards. Values below 2 aggregate on the
	// calling goroutine.
	Workers       int
	LegacyEffects bool
	Logger        *zap.Logger
}

// AggregateStream consumes src and returns the aggregated counters for ids.
// Records are distributed round-robin over shards that are merged at the
// end; per-record updates are pure increments, so the result does not
// depend on the shard count.
func AggregateStream(ctx context.Context, ids []string, regions RegionIndex, src RecordSource, opts Options) (*Aggregator, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	newAgg := func() *Aggregator {
		a := NewAggregator(ids, regions)
		a.SetLegacyEffects(opts.LegacyEffects)
		a.SetLogger(logger)
		return a
	}

	if opts.Workers < 2 {
		agg := newAgg()
		skipped, err := drain(ctx, src, logger, func(r *mutation.Record) error {
			agg.Add(r)
			return nil
		})
		if err != nil {
			return nil, err
		}
		logDone(logger, agg, skipped)
		return agg, nil
	}

	shards := make([]*Aggregator, opts.Workers)
	inputs := make([]chan *mutation.Record, opts.Workers)
	g, gctx := errgroup.WithContext(ctx)

	for i := range shards {
		shards[i] = newAgg()
		inputs[i] = make(chan *mutation.Record, 64)
		agg, in := shards[i], inputs[i]
		g.Go(func() error {
			for r := range in {
				agg.Add(r)
			}
			return nil
		})
	}

	var skipped int
	g.Go(func() error {
		defer func() {
			for _, in := range inputs {
				close(in)
			}
		}()
		next := 0
		var err error
		skipped, err = drain(gctx, src, logger, func(r *mutation.Record) error {
			select {
			case inputs[next] <- r:
			case <-gctx.Done():
				return gctx.Err()
			}
			next = (next + 1) % len(inputs)
			return nil
		})
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	agg := shards[0]
	for _, s := range shards[1:] {
		if err := agg.Merge(s); err != nil {
			return nil, err
		}
	}
	logDone(logger, agg, skipped)
	return agg, nil
}

// drain reads src until exhausted, skipping malformed records.
func drain(ctx context.Context, src RecordSource, logger *zap.Logger, fn func(*mutation.Record) error) (int, error) {
	skipped := 0
	for {
		if err := ctx.Err(); err != nil {
			return skipped, err
		}
		r, err := src.Next()
		if err != nil {
			var fe *mutation.FormatError
			if errors.As(err, &fe) {
				skipped++
				logger.Warn("skipping malformed mutation record", zap.Int("line", fe.Line), zap.Error(err))
				continue
			}
			return skipped, fmt.Errorf("read mutation record: %w", err)
		}
		if r == nil {
			return skipped, nil
		}
		if err := fn(r); err != nil {
			return skipped, err
		}
	}
}

func logDone(logger *zap.Logger, agg *Aggregator, skipped int) {
	logger.Info("sample statistics aggregated",
		zap.Int("records", agg.Records()),
		zap.Int("skipped", skipped),
		zap.Int("samples", len(agg.ids)))
}

// SliceSource adapts a slice of records to RecordSource.
type SliceSource struct {
	records []*mutation.Record
	next    int
}

// NewSliceSource returns a source yielding records in order.
func NewSliceSource(records []*mutation.Record) *SliceSource {
	return &SliceSource{records: records}
}

// Next returns the next record or nil at the end.
func (s *SliceSource) Next() (*mutation.Record, error) {
	if s.next >= len(s.records) {
		return nil, nil
	}
	r := s.records[s.next]
	s.next++
	return r, nil
}
