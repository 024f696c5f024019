package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"backwater-server/log"
	"backwater-server/metrics"
	"backwater-server/models"
)

// Assembler fans out one fetch per month of a window and assembles the
// results, in month order, into a Series.
type Assembler struct {
	concurrency int
	timeout     time.Duration

	// OnMonthDone, when set, is called once per finished month, from the
	// fetching goroutine.
	OnMonthDone func(monthStart time.Time, err error)
}

// NewAssembler bounds the number of in-flight fetches and the duration of each.
func NewAssembler(concurrency int, timeout time.Duration) *Assembler {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Assembler{concurrency: concurrency, timeout: timeout}
}

type fetchResult struct {
	obs models.MonthlyObservation
	err error
}

// Assemble calls fetch exactly once per month of window. A month whose fetch
// fails or times out becomes a row with both metrics missing. If every fetch
// fails the whole series is reported as ErrDataUnavailable.
func (a *Assembler) Assemble(ctx context.Context, window models.AnalysisWindow, region models.BoundingBox, fetch FetchMonthFunc) (*models.Series, error) {
	n := window.MonthCount
	rows := make([]models.MonthlyObservation, n)
	errs := make([]error, n)

	var g errgroup.Group
	g.SetLimit(a.concurrency)
	for m := 0; m < n; m++ {
		m := m
		monthStart := window.MonthStart(m)
		g.Go(func() error {
			rows[m], errs[m] = a.fetchOne(ctx, monthStart, region, fetch)
			if a.OnMonthDone != nil {
				a.OnMonthDone(monthStart, errs[m])
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		metrics.IncSeriesAssemble(metrics.ResultError)
		return nil, err
	}

	failed := 0
	var lastErr error
	for _, err := range errs {
		if err != nil {
			failed++
			lastErr = err
		}
	}
	if n > 0 && failed == n {
		metrics.IncSeriesAssemble(metrics.ResultError)
		return nil, fmt.Errorf("%w: all %d monthly fetches failed, last: %w", models.ErrDataUnavailable, n, lastErr)
	}
	if failed > 0 {
		log.Warnf("[Assembler] %d of %d months failed for %s, kept as missing", failed, n, region)
	}

	flags := make([]bool, n)
	for i := range rows {
		flags[i] = rows[i].IsMonsoon
	}
	metrics.IncSeriesAssemble(metrics.ResultSuccess)
	return &models.Series{Rows: rows, MonsoonRuns: MonsoonRuns(flags)}, nil
}

// fetchOne runs a single fetch under its own timeout. The returned row is
// always labelled with monthStart, whatever the fetch returned.
func (a *Assembler) fetchOne(ctx context.Context, monthStart time.Time, region models.BoundingBox, fetch FetchMonthFunc) (models.MonthlyObservation, error) {
	label := monthStart.Format(models.MonthLayout)
	fctx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		fctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	started := time.Now()
	done := make(chan fetchResult, 1)
	go func() {
		obs, err := fetch(fctx, monthStart, region)
		done <- fetchResult{obs: obs, err: err}
	}()

	var res fetchResult
	select {
	case res = <-done:
	case <-fctx.Done():
		res.err = fctx.Err()
	}

	if res.err != nil {
		result := metrics.ResultError
		if errors.Is(res.err, context.DeadlineExceeded) {
			result = metrics.ResultTimeout
		}
		metrics.ObserveMonthFetch(result, time.Since(started))
		log.Warnf("[Assembler] fetch for %s failed: %v", label, res.err)
		obs := models.MissingObservation(monthStart)
		obs.IsMonsoon = IsMonsoon(label)
		return obs, fmt.Errorf("month %s: %w", label, res.err)
	}

	obs := res.obs
	obs.Month = label
	obs.IsMonsoon = IsMonsoon(label)
	result := metrics.ResultSuccess
	if obs.ChlorophyllIndex == nil && obs.TurbidityIndex == nil {
		result = metrics.ResultMissing
	}
	metrics.ObserveMonthFetch(result, time.Since(started))
	return obs, nil
}
