// Package pipeline chains extraction, filtering, off-target screening,
// folding and ranking for one locus at a time.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hillstub/yeastriction/internal/fold"
	"github.com/hillstub/yeastriction/internal/genome"
	"github.com/hillstub/yeastriction/internal/target"
)

// Screener is the off-target screening step. A failed screen fails the
// request: the result must never be mistaken for "no off-targets".
type Screener interface {
	Screen(ctx context.Context, strain string, candidates []target.Candidate) ([]target.Candidate, error)
}

// Folder predicts one candidate's sgRNA structure. A failed fold only
// excludes that candidate.
type Folder interface {
	Fold(ctx context.Context, core string) (fold.Structure, error)
}

// Pipeline holds the per-process collaborators and tuning for target
// searches. It carries no per-request state and is safe for concurrent
// use.
type Pipeline struct {
	Screener Screener
	Folder   Folder

	// default restriction enzyme list, used when a request brings none
	Enzymes []target.Enzyme

	// PAM pattern for extraction
	PAM string

	// poly-T run length that disqualifies a candidate
	MaxPolyT int

	// concurrent folding processes
	Workers int

	// budget for one locus's external process work
	Timeout time.Duration
}

// Result is the outcome of a target search on one locus. Target scores
// are normalized within this locus only.
type Result struct {
	Locus *genome.Locus

	// ranked targets, best first. Empty means "no targets found",
	// which is a valid outcome, not an error.
	Targets []target.Ranked

	// candidates dropped because their fold failed
	Excluded int
}

// Run searches one locus for ranked Cas9 targets. The enzymes argument
// replaces the default restriction list for this request only; pass nil
// to keep the default.
func (p *Pipeline) Run(ctx context.Context, strain string, l *genome.Locus, enzymes []target.Enzyme) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	if enzymes == nil {
		enzymes = p.Enzymes
	}

	candidates := target.Extract(l.ORFSequence(), p.PAM, target.Both)
	candidates = target.FilterPolyT(candidates, p.MaxPolyT)
	if len(candidates) == 0 {
		return &Result{Locus: l}, nil
	}

	kept, err := p.Screener.Screen(ctx, strain, candidates)
	if err != nil {
		return nil, fmt.Errorf("off-target screening failed for %s: %w", l.DisplayName(), err)
	}
	if len(kept) == 0 {
		return &Result{Locus: l}, nil
	}

	scored, excluded, err := p.foldAll(ctx, l, kept)
	if err != nil {
		return nil, err
	}

	for i := range scored {
		scored[i].ATContent = target.ATContent(scored[i].Core)
		scored[i].Enzymes = target.Annotate(scored[i].Core, enzymes)
	}

	return &Result{
		Locus:    l,
		Targets:  target.Rank(scored),
		Excluded: excluded,
	}, nil
}

// foldAll folds the surviving candidates with a bounded worker pool.
// Per-candidate failures are logged and skipped; a cancelled or expired
// context aborts the whole request.
func (p *Pipeline) foldAll(ctx context.Context, l *genome.Locus, candidates []target.Candidate) ([]target.Scored, int, error) {
	results := make([]*target.Scored, len(candidates))

	g, ctx := errgroup.WithContext(ctx)
	limit := p.Workers
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			s, err := p.Folder.Fold(ctx, c.Core)
			if err != nil {
				if ctx.Err() != nil {
					return fmt.Errorf("folding aborted for %s: %w", l.DisplayName(), ctx.Err())
				}

				// rare per-sequence numerical edge case, drop the candidate
				log.Printf("excluding %s target %s: fold failed: %v", l.DisplayName(), c.Core, err)
				return nil
			}

			results[i] = &target.Scored{
				Candidate:    c,
				Paired:       s.Paired,
				Notation:     s.Notation,
				NotationCore: s.NotationCore,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	var (
		scored   []target.Scored
		excluded int
	)
	for _, r := range results {
		if r == nil {
			excluded++
			continue
		}
		scored = append(scored, *r)
	}
	return scored, excluded, nil
}
