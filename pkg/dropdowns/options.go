package dropdowns

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Recorder observes finished loads. Implementations must be safe for
// concurrent use.
type Recorder interface {
	ObserveLoad(source string, origin Origin, elapsed time.Duration)
}

type Options struct {
	SheetURL   string
	HTTPClient *http.Client
	Timeout    time.Duration
	HeaderRows int

	// Source overrides the feed built from SheetURL.
	Source    Source
	Fallbacks *Set
	Logger    zerolog.Logger
	Recorder  Recorder
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		HeaderRows: 1,
		Logger:     zerolog.Nop(),
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.HeaderRows < 0 {
		opts.HeaderRows = 0
	}
	if opts.Fallbacks != nil {
		clone := opts.Fallbacks.Clone()
		opts.Fallbacks = &clone
	}
	return opts
}

func WithSheetURL(url string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SheetURL = url
	}
}

func WithHTTPClient(client *http.Client) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.HTTPClient = client
	}
}

// WithTimeout bounds the fetch. Zero leaves the request unbounded.
func WithTimeout(timeout time.Duration) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Timeout = timeout
	}
}

func WithHeaderRows(rows int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.HeaderRows = rows
	}
}

func WithSource(source Source) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Source = source
	}
}

func WithFallbacks(set Set) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Fallbacks = &set
	}
}

func WithLogger(logger zerolog.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

func WithRecorder(recorder Recorder) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Recorder = recorder
	}
}
