package mutation

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/inodb/rvqc/internal/vcf"
)

// WorkItem holds a parsed variant ready for record building.
type WorkItem struct {
	Seq     int
	Line    int
	Variant *vcf.Variant
}

// WorkResult holds the build output for a single variant. Record is nil
// when the variant was filtered out.
type WorkResult struct {
	Seq     int
	Line    int
	Variant *vcf.Variant
	Record  *Record
	Err     error
}

// ParallelBuild builds records from work items using a pool of workers.
// Results are sent to the returned channel in arrival order (not sequence order).
// Use OrderedCollect to consume results in sequence-number order.
// If workers is 0, runtime.NumCPU() is used.
func (b *Builder) ParallelBuild(items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				rec, err := b.Build(item.Variant)
				var fe *FormatError
				if errors.As(err, &fe) && fe.Line == 0 {
					fe.Line = item.Line
				}
				results <- WorkResult{
					Seq:     item.Seq,
					Line:    item.Line,
					Variant: item.Variant,
					Record:  rec,
					Err:     err,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order.
// It buffers out-of-order results in a pending map and emits them
// as soon as the next expected sequence number is available.
// Blocks until the results channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}

// Filter decides whether a variant enters record building at all.
type Filter interface {
	Accept(v *vcf.Variant) (bool, error)
}

// Summary counts what happened to each input line.
type Summary struct {
	Variants  int // data lines parsed successfully
	Malformed int // lines skipped with a format error
	Rejected  int // variants rejected by the quality filter
	Excluded  int // variants without a qualifying annotation or outside the AF window
	Records   int // mutation records emitted
}

// BuildAll streams variants from parser through the builder and calls fn
// for every record, in input order. Malformed lines are logged and
// skipped. filter may be nil.
func (b *Builder) BuildAll(parser vcf.VariantParser, filter Filter, workers int, fn func(*Record) error) (Summary, error) {
	var summary Summary
	items := make(chan WorkItem, 2*max(workers, runtime.NumCPU()))
	var parseErr error
	// Only the producer goroutine touches these until items is closed.
	var variants, malformed, rejected int

	go func() {
		defer close(items)
		seq := 0
		for {
			v, err := parser.Next()
			if err != nil {
				var fe *vcf.FormatError
				if errors.As(err, &fe) {
					malformed++
					b.logger.Warn("skipping malformed variant line", zap.Int("line", fe.Line), zap.Error(err))
					continue
				}
				parseErr = fmt.Errorf("read variant: %w", err)
				return
			}
			if v == nil {
				return
			}
			variants++

			if filter != nil {
				ok, err := filter.Accept(v)
				if err != nil {
					malformed++
					b.logger.Warn("skipping variant with unreadable quality metrics",
						zap.Int("line", parser.LineNumber()),
						zap.Error(err))
					continue
				}
				if !ok {
					rejected++
					continue
				}
			}

			items <- WorkItem{Seq: seq, Line: parser.LineNumber(), Variant: v}
			seq++
		}
	}()

	results := b.ParallelBuild(items, workers)

	err := OrderedCollect(results, func(r WorkResult) error {
		if r.Err != nil {
			var fe *FormatError
			if errors.As(r.Err, &fe) {
				summary.Malformed++
				b.logger.Warn("skipping malformed variant",
					zap.String("chrom", r.Variant.Chrom),
					zap.Int64("pos", r.Variant.Pos),
					zap.Error(r.Err))
				return nil
			}
			return r.Err
		}
		if r.Record == nil {
			summary.Excluded++
			return nil
		}
		summary.Records++
		return fn(r.Record)
	})

	// results is closed only after items is drained, so the producer has
	// finished writing its counters by now.
	summary.Variants = variants
	summary.Malformed += malformed
	summary.Rejected = rejected

	if err != nil {
		return summary, err
	}
	if parseErr != nil {
		return summary, parseErr
	}

	b.logger.Info("mutation records built",
		zap.Int("variants", summary.Variants),
		zap.Int("malformed", summary.Malformed),
		zap.Int("rejected", summary.Rejected),
		zap.Int("excluded", summary.Excluded),
		zap.Int("records", summary.Records))

	return summary, nil
}
