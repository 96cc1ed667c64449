// Package pipeline wires the qualification run together: concurrent
// source extraction, then single-threaded matching, resolution and
// deduplication over the merged results.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/limitscan/limitscan/internal/cache"
	"github.com/limitscan/limitscan/internal/match"
	"github.com/limitscan/limitscan/internal/model"
	"github.com/limitscan/limitscan/internal/qualify"
	"github.com/limitscan/limitscan/internal/report"
	"github.com/limitscan/limitscan/internal/source"
	"github.com/limitscan/limitscan/internal/worker"
)

// Pipeline is a pure function of (limits specification, sources) to a
// qualification report. It holds no state between runs beyond the page
// cache inside the fetcher.
type Pipeline struct {
	spec    *model.LimitSpec
	cfg     *model.Config
	fetcher *Fetcher
	logger  *zap.Logger
}

// New creates a pipeline for one limits specification.
func New(spec *model.LimitSpec, cfg *model.Config, logger *zap.Logger) *Pipeline {
	var pages cache.Cache
	if cfg.Cache.Enabled {
		if cfg.Cache.Dir != "" {
			pages = cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
		} else {
			pages = cache.NewMemoryCache(cfg.Cache.TTL, 10*time.Minute)
		}
	}

	return &Pipeline{
		spec:    spec,
		cfg:     cfg,
		fetcher: NewFetcher(cfg, pages, logger),
		logger:  logger,
	}
}

// URLSource builds a URL source backed by the pipeline's fetcher.
func (p *Pipeline) URLSource(url, club string) source.Source {
	return &source.URLSource{URL: url, Club: club, Fetcher: p.fetcher}
}

// extractJob adapts a source to the worker pool.
type extractJob struct {
	source source.Source
}

type extractResult struct {
	name    string
	results []model.RawResult
	err     error
}

func (r *extractResult) GetError() error { return r.err }

func (j *extractJob) Execute(ctx context.Context) worker.Result {
	results, err := j.source.Extract(ctx)
	return &extractResult{name: j.source.Name(), results: results, err: err}
}

// Run extracts every source, evaluates the merged results and returns
// the deduplicated report. A failing source is logged and skipped; the
// run aborts only when the context is cancelled before completion.
func (p *Pipeline) Run(ctx context.Context, sources []source.Source) (*model.Report, error) {
	raws, err := p.extract(ctx, sources)
	if err != nil {
		return nil, err
	}

	matcher := match.NewMatcher(p.spec)
	resolver := qualify.NewResolver(p.spec)

	var records []model.QualificationRecord
	analyzed := 0
	for _, raw := range raws {
		// Year scope applies to every result that carries a year, not
		// just database rows.
		if len(p.spec.Years) > 0 && raw.Year > 0 && !p.spec.HasYear(raw.Year) {
			p.logger.Debug("result year out of scope",
				zap.Int("year", raw.Year),
				zap.String("athlete", raw.AthleteName))
			continue
		}
		candidates := matcher.Candidates(raw.DisciplineRaw)
		if len(candidates) == 0 {
			p.logger.Debug("discipline not in specification",
				zap.String("discipline", raw.DisciplineRaw),
				zap.String("athlete", raw.AthleteName))
			continue
		}
		analyzed++
		records = append(records, resolver.Resolve(raw, candidates)...)
	}

	reporter := report.NewReporter(p.spec)
	return reporter.Finalize(records, raws, analyzed), nil
}

// extract runs every source through the worker pool and merges their
// output. Order is not significant downstream.
func (p *Pipeline) extract(ctx context.Context, sources []source.Source) ([]model.RawResult, error) {
	pool := worker.NewPool(p.cfg.Concurrency.SourceWorkers)
	pool.Start(ctx)

	for _, src := range sources {
		pool.Submit(&extractJob{source: src})
	}
	results := pool.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var raws []model.RawResult
	for _, res := range results {
		er := res.(*extractResult)
		if er.err != nil {
			p.logger.Warn("source failed, skipping",
				zap.String("source", er.name),
				zap.Error(er.err))
			continue
		}
		p.logger.Info("source extracted",
			zap.String("source", er.name),
			zap.Int("results", len(er.results)))
		raws = append(raws, er.results...)
	}
	return raws, nil
}
