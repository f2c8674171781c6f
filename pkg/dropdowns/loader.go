package dropdowns

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// Result is the outcome of a single load. Err is set when the fallback
// sequences were used; it is informational only.
type Result struct {
	Set     Set
	Origin  Origin
	Source  string
	Err     error
	Elapsed time.Duration
}

// Loader fetches the dropdown sheet. It keeps no cache: every Load performs a
// fresh fetch.
type Loader struct {
	opts     Options
	source   Source
	inflight atomic.Int32
}

// New constructs a Loader with default options plus any overrides.
func New(fns ...OptionFn) *Loader {
	opts := NewOptions(fns...)
	source := opts.Source
	if source == nil {
		source = &GVizSource{
			URL:     opts.SheetURL,
			Client:  opts.HTTPClient,
			Timeout: opts.Timeout,
		}
	}
	return &Loader{opts: opts, source: source}
}

// IsLoading reports whether any fetch is in flight. Concurrent loads are
// counted, so the flag stays set until the last of them returns.
func (l *Loader) IsLoading() bool {
	if l == nil {
		return false
	}
	return l.inflight.Load() > 0
}

// Load performs one fetch and returns either the extracted lists or the
// complete fallback set. It never returns a partial merge of both.
func (l *Loader) Load(ctx context.Context) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	l.inflight.Add(1)
	defer l.inflight.Add(-1)

	started := time.Now()
	result := l.load(ctx)
	result.Elapsed = time.Since(started)

	if result.Err != nil {
		l.opts.Logger.Warn().
			Err(result.Err).
			Str("source", result.Source).
			Msg("dropdown sheet unavailable, using fallback options")
	} else {
		l.opts.Logger.Debug().
			Str("source", result.Source).
			Int("acceptance_via", len(result.Set.AcceptanceVia)).
			Int("payment_mode", len(result.Set.PaymentMode)).
			Int("reason_status", len(result.Set.ReasonStatus)).
			Int("hold_reason", len(result.Set.HoldReason)).
			Dur("elapsed", result.Elapsed).
			Msg("dropdown options loaded")
	}
	if l.opts.Recorder != nil {
		l.opts.Recorder.ObserveLoad(result.Source, result.Origin, result.Elapsed)
	}
	return result
}

func (l *Loader) load(ctx context.Context) (result Result) {
	result.Source = l.source.Name()

	defer func() {
		if r := recover(); r != nil {
			result = l.fallback(result.Source, errors.New("dropdowns: source panicked"))
		}
	}()

	records, err := l.source.Records(ctx)
	if err != nil {
		return l.fallback(result.Source, err)
	}
	return Result{
		Set:    Extract(records, l.opts.HeaderRows),
		Origin: OriginSheet,
		Source: result.Source,
	}
}

// Fallbacks returns the fallback set configured for the loader.
func (l *Loader) Fallbacks() Set {
	if l.opts.Fallbacks != nil {
		return l.opts.Fallbacks.Clone()
	}
	return MustDefaultFallbacks()
}

func (l *Loader) fallback(source string, cause error) Result {
	return Result{
		Set:    l.Fallbacks(),
		Origin: OriginFallback,
		Source: source,
		Err:    cause,
	}
}
