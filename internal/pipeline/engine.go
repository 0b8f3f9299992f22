// Package pipeline orchestrates a scrape run end to end: index fetch, link
// discovery, per-team table extraction and normalization, aggregation, and
// export of the final artifacts.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ballpark-labs/payrollscrape/internal/database"
	"github.com/ballpark-labs/payrollscrape/internal/export"
	"github.com/ballpark-labs/payrollscrape/internal/fetch"
	"github.com/ballpark-labs/payrollscrape/internal/metrics"
	"github.com/ballpark-labs/payrollscrape/internal/normalize"
	"github.com/ballpark-labs/payrollscrape/internal/queue"
	"github.com/ballpark-labs/payrollscrape/internal/scrape"
	"github.com/ballpark-labs/payrollscrape/internal/storage"
)

// Summary describes one finished run. It is logged, returned to the caller,
// and published to the event topic.
type Summary struct {
	RunID              string          `json:"run_id"`
	IndexURL           string          `json:"index_url"`
	Sources            int             `json:"sources"`
	Rows               int             `json:"rows"`
	RowsBySource       map[string]int  `json:"rows_by_source,omitempty"`
	EncodingViolations int             `json:"encoding_violations"`
	Failed             []SourceFailure `json:"failed,omitempty"`
	OutputPath         string          `json:"output_path"`
}

// SourceFailure records one per-team branch that was skipped.
type SourceFailure struct {
	Team   string `json:"team,omitempty"`
	Label  string `json:"label"`
	URL    string `json:"url"`
	Reason string `json:"reason"`
}

// sourceResult is the outcome of one per-team branch.
type sourceResult struct {
	team       string
	label      string
	url        string
	records    []normalize.SalaryRecord
	violations int
	err        error
}

// Engine runs the scrape pipeline.
type Engine struct {
	cfg     Config
	fetcher fetch.Fetcher
	codes   *scrape.CodeExtractor
	archive storage.Provider
	db      database.Provider
	events  queue.Provider
	logger  *zap.Logger
}

// NewEngine constructs an Engine. Nil providers default to no-ops.
func NewEngine(
	cfg Config,
	fetcher fetch.Fetcher,
	archive storage.Provider,
	db database.Provider,
	events queue.Provider,
	logger *zap.Logger,
) (*Engine, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}
	codes, err := scrape.NewCodeExtractor(cfg.TeamCodePattern)
	if err != nil {
		return nil, err
	}
	if archive == nil {
		archive = &storage.NoOpProvider{}
	}
	if db == nil {
		db = &database.NoOpProvider{}
	}
	if events == nil {
		events = &queue.NoOpProvider{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cfg:     cfg,
		fetcher: fetcher,
		codes:   codes,
		archive: archive,
		db:      db,
		events:  events,
		logger:  logger,
	}, nil
}

// Run executes one scrape run. Index-level failures abort before any
// artifact is written; per-team failures are isolated, recorded in the
// summary, and do not stop the run unless every team fails.
func (e *Engine) Run(ctx context.Context) (Summary, error) {
	metrics.Init()
	summary := Summary{
		RunID:        uuid.NewString(),
		IndexURL:     e.cfg.IndexURL,
		RowsBySource: make(map[string]int),
		OutputPath:   e.cfg.OutputPath,
	}
	e.logger.Info("Starting scrape run",
		zap.String("run_id", summary.RunID),
		zap.String("index_url", e.cfg.IndexURL),
	)

	links, err := e.discoverLinks(ctx, summary.RunID)
	if err != nil {
		metrics.RecordRun("failed")
		return summary, err
	}

	results := e.scrapeAll(ctx, summary.RunID, links)

	order := make([]string, 0, len(results))
	bySource := make(map[string][]normalize.SalaryRecord, len(results))
	for _, res := range results {
		if res.err != nil {
			metrics.RecordSourceFailure()
			e.logger.Warn("Skipping failed source",
				zap.String("label", res.label),
				zap.String("url", res.url),
				zap.Error(res.err),
			)
			summary.Failed = append(summary.Failed, SourceFailure{
				Team:   res.team,
				Label:  res.label,
				URL:    res.url,
				Reason: res.err.Error(),
			})
			continue
		}
		// Duplicate index links share one aggregation slot per team code.
		if _, seen := bySource[res.team]; !seen {
			order = append(order, res.team)
		}
		bySource[res.team] = append(bySource[res.team], res.records...)
		summary.Sources++
		summary.Rows += len(res.records)
		summary.RowsBySource[res.team] += len(res.records)
		summary.EncodingViolations += res.violations
	}

	if len(order) == 0 {
		metrics.RecordRun("failed")
		return summary, fmt.Errorf("all %d team sources failed", len(links))
	}

	dataset := export.Aggregate(order, bySource)
	if err := export.WriteSalariesFile(e.cfg.OutputPath, dataset); err != nil {
		metrics.RecordRun("failed")
		return summary, fmt.Errorf("export dataset: %w", err)
	}
	if err := e.db.LoadSalaries(ctx, dataset); err != nil {
		metrics.RecordRun("failed")
		return summary, fmt.Errorf("load dataset: %w", err)
	}

	e.publishSummary(ctx, summary)
	metrics.RecordRun("succeeded")
	e.logger.Info("Scrape run finished",
		zap.String("run_id", summary.RunID),
		zap.Int("sources", summary.Sources),
		zap.Int("rows", summary.Rows),
		zap.Int("failed_sources", len(summary.Failed)),
		zap.Int("encoding_violations", summary.EncodingViolations),
		zap.String("output_path", summary.OutputPath),
	)
	return summary, nil
}

// discoverLinks fetches the index page and extracts the per-team links.
func (e *Engine) discoverLinks(ctx context.Context, runID string) ([]scrape.LinkEntry, error) {
	page, err := e.fetcher.Fetch(ctx, e.cfg.IndexURL)
	if err != nil {
		metrics.RecordPage("failed")
		return nil, fmt.Errorf("fetch index page: %w", err)
	}
	metrics.RecordPage("fetched")
	e.archivePage(ctx, runID, "index", page)

	doc, err := page.Document()
	if err != nil {
		return nil, err
	}
	links, err := scrape.ExtractLinks(doc, e.cfg.TableSelector)
	if err != nil {
		return nil, fmt.Errorf("extract team links: %w", err)
	}
	if len(links) == 0 {
		return nil, fmt.Errorf("index page %s produced no team links", e.cfg.IndexURL)
	}
	return links, nil
}

// scrapeAll runs the per-team branches with bounded concurrency. Each
// branch owns exactly one results slot and shares nothing else, so a
// failing branch cannot corrupt its neighbors.
func (e *Engine) scrapeAll(ctx context.Context, runID string, links []scrape.LinkEntry) []sourceResult {
	results := make([]sourceResult, len(links))
	sem := make(chan struct{}, e.cfg.Concurrency)
	var wg sync.WaitGroup
	for i, link := range links {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, link scrape.LinkEntry) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = e.scrapeSource(ctx, runID, link)
		}(i, link)
	}
	wg.Wait()
	return results
}

// scrapeSource executes one fetch-parse-normalize branch.
func (e *Engine) scrapeSource(ctx context.Context, runID string, link scrape.LinkEntry) sourceResult {
	res := sourceResult{label: link.Label, url: link.Href}

	code, ok := e.codes.Extract(link.Href)
	if !ok {
		res.err = fmt.Errorf("no team code in href %q", link.Href)
		return res
	}
	res.team = code

	target, err := resolveHref(e.cfg.IndexURL, link.Href)
	if err != nil {
		res.err = err
		return res
	}
	res.url = target

	page, err := e.fetcher.Fetch(ctx, target)
	if err != nil {
		metrics.RecordPage("failed")
		res.err = fmt.Errorf("fetch team page: %w", err)
		return res
	}
	metrics.RecordPage("fetched")
	e.archivePage(ctx, runID, code, page)

	doc, err := page.Document()
	if err != nil {
		res.err = err
		return res
	}
	tbl, err := scrape.ParseTable(doc, e.cfg.TableSelector, e.cfg.SkipRows)
	if err != nil {
		res.err = fmt.Errorf("parse salary table: %w", err)
		return res
	}
	records, violations, err := normalize.Normalize(tbl, code, e.cfg.Columns)
	if err != nil {
		res.err = fmt.Errorf("normalize rows: %w", err)
		return res
	}
	metrics.AddRows(code, len(records))
	metrics.AddEncodingViolations(violations)

	res.records = records
	res.violations = violations
	return res
}

// archivePage stores the raw snapshot for provenance. Archive failures are
// logged but never fail the run.
func (e *Engine) archivePage(ctx context.Context, runID, name string, page fetch.Page) {
	object := path.Join("runs", runID, name+".html")
	if err := e.archive.Save(ctx, object, page.Body); err != nil {
		e.logger.Warn("Failed to archive page",
			zap.String("object", object),
			zap.String("url", page.URL),
			zap.Error(err),
		)
	}
}

// publishSummary emits the run summary to the event topic, best effort.
func (e *Engine) publishSummary(ctx context.Context, summary Summary) {
	payload, err := json.Marshal(summary)
	if err != nil {
		e.logger.Warn("Failed to marshal run summary", zap.Error(err))
		return
	}
	if err := e.events.Publish(ctx, payload); err != nil {
		e.logger.Warn("Failed to publish run summary", zap.Error(err))
	}
}

// resolveHref resolves a possibly relative link against the index URL.
func resolveHref(base, href string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse index url: %w", err)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("parse link href %q: %w", href, err)
	}
	return baseURL.ResolveReference(ref).String(), nil
}
