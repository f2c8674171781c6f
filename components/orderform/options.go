package orderform

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-orderstatus/pkg/dropdowns"
	"github.com/goliatone/go-orderstatus/pkg/orderstatus"
	"github.com/goliatone/go-orderstatus/pkg/render"
)

type GuardFunc func(r *http.Request) error

// LoaderFunc returns the dropdown loader for a new mount.
type LoaderFunc func() *dropdowns.Loader

// ChangeFunc observes every update a session's component emits.
type ChangeFunc func(sessionID string, update orderstatus.Update)

// SubmitFunc receives the collected payload of a complete submission.
type SubmitFunc func(ctx context.Context, sessionID string, payload map[orderstatus.FieldName]orderstatus.Value) error

// PageRenderer renders the full HTML page around the form.
type PageRenderer interface {
	render.Renderer
	RenderPage(ctx context.Context, view orderstatus.View, options render.RenderOptions) ([]byte, error)
}

type Options struct {
	RoutePath      string
	SessionCookie  string
	SessionParam   string
	SessionTTL     time.Duration
	MaxUploadBytes int64
	SubmitPolicy   orderstatus.SubmitPolicy
	DefaultFormat  string
	Guard          GuardFunc

	Loader   LoaderFunc
	Page     PageRenderer
	Registry *render.Registry
	OnChange ChangeFunc
	OnSubmit SubmitFunc
	Logger   zerolog.Logger
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:      "/order-status",
		SessionCookie:  "orderstatus_session",
		SessionParam:   "session",
		SessionTTL:     30 * time.Minute,
		MaxUploadBytes: 32 << 20,
		SubmitPolicy:   orderstatus.KeepHidden,
		DefaultFormat:  "vanilla",
		Logger:         zerolog.Nop(),
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
	defaults := DefaultOptions()
	if opts.RoutePath == "" {
		opts.RoutePath = defaults.RoutePath
	}
	if opts.SessionCookie == "" {
		opts.SessionCookie = defaults.SessionCookie
	}
	if opts.SessionParam == "" {
		opts.SessionParam = defaults.SessionParam
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = defaults.SessionTTL
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaults.MaxUploadBytes
	}
	if opts.SubmitPolicy == "" {
		opts.SubmitPolicy = defaults.SubmitPolicy
	}
	if opts.DefaultFormat == "" {
		opts.DefaultFormat = defaults.DefaultFormat
	}
	if opts.Loader == nil {
		opts.Loader = func() *dropdowns.Loader { return dropdowns.New() }
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

func WithSessionCookie(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SessionCookie = name
	}
}

func WithSessionTTL(ttl time.Duration) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SessionTTL = ttl
	}
}

func WithMaxUploadBytes(limit int64) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxUploadBytes = limit
	}
}

func WithSubmitPolicy(policy orderstatus.SubmitPolicy) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SubmitPolicy = policy
	}
}

func WithDefaultFormat(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.DefaultFormat = name
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

// WithLoader sets the factory used to build one dropdown loader per mount.
func WithLoader(fn LoaderFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Loader = fn
	}
}

func WithPageRenderer(page PageRenderer) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Page = page
	}
}

// WithRegistry exposes additional renderers selectable with ?format=.
func WithRegistry(registry *render.Registry) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Registry = registry
	}
}

func WithOnChange(fn ChangeFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.OnChange = fn
	}
}

func WithOnSubmit(fn SubmitFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.OnSubmit = fn
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
