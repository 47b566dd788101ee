// Package seeder loads demo records into a database through the regular
// record services, so permissions, history and codes behave as in production.
package seeder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/contracthub-backend/internal/domain"
	"github.com/heartmarshall/contracthub-backend/internal/transport/binding"
)

// allPhases defines the execution order.
var allPhases = []domain.EntityType{
	domain.EntityTypeOrganization,
	domain.EntityTypeContract,
	domain.EntityTypeRelationship,
}

type collections interface {
	Lookup(t domain.EntityType) (binding.Collection, bool)
}

// PhaseResult holds the outcome of a single phase.
type PhaseResult struct {
	Inserted int
	Skipped  int
	Errors   int
	Codes    []string
	Duration time.Duration
	Err      error
}

// Pipeline creates fixture records collection by collection.
type Pipeline struct {
	log     *slog.Logger
	cols    collections
	dryRun  bool
	results map[domain.EntityType]PhaseResult
}

// NewPipeline creates a new Pipeline.
func NewPipeline(log *slog.Logger, cols collections, dryRun bool) *Pipeline {
	return &Pipeline{
		log:     log.With("component", "seeder"),
		cols:    cols,
		dryRun:  dryRun,
		results: make(map[domain.EntityType]PhaseResult),
	}
}

// Results returns phase results after Run completes.
func (p *Pipeline) Results() map[domain.EntityType]PhaseResult {
	return p.results
}

// HasErrors reports whether any phase recorded errors.
func (p *Pipeline) HasErrors() bool {
	for _, r := range p.results {
		if r.Err != nil || r.Errors > 0 {
			return true
		}
	}
	return false
}

// Run creates every fixture record. ctx must carry the acting user. A record
// that fails validation is logged and counted; the rest of the phase goes on.
func (p *Pipeline) Run(ctx context.Context, fx *Fixture) error {
	if fx == nil {
		return fmt.Errorf("seeder: nil fixture")
	}

	for _, t := range allPhases {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := time.Now()
		result := p.runPhase(ctx, t, fx.records(t))
		result.Duration = time.Since(start)
		p.results[t] = result

		if result.Err != nil {
			p.log.Warn("phase failed",
				slog.String("phase", t.Collection()),
				slog.String("error", result.Err.Error()),
			)
			continue
		}
		p.log.Info("phase completed",
			slog.String("phase", t.Collection()),
			slog.Int("inserted", result.Inserted),
			slog.Int("skipped", result.Skipped),
			slog.Int("errors", result.Errors),
			slog.Duration("duration", result.Duration),
		)
	}
	return nil
}

func (p *Pipeline) runPhase(ctx context.Context, t domain.EntityType, records []map[string]any) PhaseResult {
	if len(records) == 0 {
		return PhaseResult{}
	}
	if p.dryRun {
		return PhaseResult{Skipped: len(records)}
	}

	col, ok := p.cols.Lookup(t)
	if !ok {
		return PhaseResult{Skipped: len(records), Err: fmt.Errorf("no collection for %s", t)}
	}

	var result PhaseResult
	for i, raw := range records {
		doc, err := col.Create(ctx, raw)
		if err != nil {
			result.Errors++
			p.log.Warn("create failed",
				slog.String("phase", t.Collection()),
				slog.Int("index", i),
				slog.String("error", err.Error()),
			)
			continue
		}
		result.Inserted++
		result.Codes = append(result.Codes, doc.Code())
	}
	return result
}

func (fx *Fixture) records(t domain.EntityType) []map[string]any {
	switch t {
	case domain.EntityTypeOrganization:
		return fx.Organizations
	case domain.EntityTypeContract:
		return fx.Contracts
	case domain.EntityTypeRelationship:
		return fx.Relationships
	}
	return nil
}
