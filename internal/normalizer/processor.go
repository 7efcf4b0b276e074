// Package normalizer maps legacy pension-payee sheets onto the canonical
// record schema and computes the data-quality flags for each row.
package normalizer

import (
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"pensionqa/internal/logger"
	"pensionqa/internal/models"
)

// Processor normalizes a whole table of raw rows.
type Processor struct {
	validator  *Validator
	normalizer *Normalizer
	log        *logger.Logger
	workers    int
}

// Option configures a Processor.
type Option func(*Processor)

// WithWorkers splits the rows across n goroutines. Values below 2 keep the
// processor sequential.
func WithWorkers(n int) Option {
	return func(p *Processor) {
		if n > 1 {
			p.workers = n
		}
	}
}

// WithNormalizer replaces the default row normalizer.
func WithNormalizer(n *Normalizer) Option {
	return func(p *Processor) {
		if n != nil {
			p.normalizer = n
		}
	}
}

// WithLogger sets the processor logger.
func WithLogger(l *logger.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.log = l
		}
	}
}

// NewProcessor creates a new processor instance.
func NewProcessor(opts ...Option) *Processor {
	p := &Processor{
		validator:  NewValidator(),
		normalizer: NewNormalizer(),
		log:        logger.Discard(),
		workers:    1,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// NormalizeAll normalizes records in order with a default processor.
func NormalizeAll(layout Layout, records []models.RawRecord) ([]models.CanonicalRecord, error) {
	return NewProcessor().Process(layout, records)
}

// Process normalizes every record, assigning identifiers from 1 in input
// order. It returns no records at all when any row fails.
func (p *Processor) Process(layout Layout, records []models.RawRecord) ([]models.CanonicalRecord, error) {
	// 1. Validate the run
	if err := p.validator.Validate(layout, int64(len(records))); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	start := time.Now()

	// 2. Normalize the rows
	out := make([]models.CanonicalRecord, len(records))

	var err error
	if p.workers > 1 && len(records) > p.workers {
		err = p.processParallel(layout, records, out)
	} else {
		err = p.processRange(layout, records, out, 0)
	}

	if err != nil {
		return nil, fmt.Errorf("normalization failed: %w", err)
	}

	p.log.Debug("normalized rows",
		"layout", layout.String(),
		"rows", len(out),
		"workers", p.workers,
		"elapsed", time.Since(start))

	return out, nil
}

// processRange normalizes records into out; offset is the position of
// records[0] in the full table.
func (p *Processor) processRange(layout Layout, records []models.RawRecord, out []models.CanonicalRecord, offset int) error {
	for i, raw := range records {
		rec, err := p.normalizer.Normalize(raw, layout, int64(offset+i)+1)
		if err != nil {
			return err
		}

		out[i] = rec
	}

	return nil
}

// processParallel gives each worker a contiguous chunk. Identifiers come from
// the row position, so the output order matches the sequential path.
func (p *Processor) processParallel(layout Layout, records []models.RawRecord, out []models.CanonicalRecord) error {
	chunk := (len(records) + p.workers - 1) / p.workers

	var g errgroup.Group

	for lo := 0; lo < len(records); lo += chunk {
		lo := lo
		hi := min(lo+chunk, len(records))

		g.Go(func() error {
			return p.processRange(layout, records[lo:hi], out[lo:hi], lo)
		})
	}

	return g.Wait()
}
