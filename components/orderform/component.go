package orderform

import "net/http"

// Component wraps the form handler, its configuration, and routing helpers.
type Component struct {
	opts Options
}

// New constructs a new component with default options plus any overrides.
func New(fns ...OptionFn) *Component {
	opts := NewOptions(fns...)
	return &Component{opts: opts}
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return DefaultOptions()
	}
	return NewOptions(func(o *Options) { *o = c.opts })
}

// MountPath returns where the form page lives under basePath.
func (c *Component) MountPath(basePath string) string {
	return mountPath(basePath, c.Options().RoutePath)
}

// Handler returns a net/http handler serving the form under basePath.
func (c *Component) Handler(basePath string) (http.Handler, error) {
	return HandlerWithOptions(basePath, c.Options())
}

// RegisterRoutes registers the component handler under basePath on mux.
func (c *Component) RegisterRoutes(mux Mux, basePath string) (string, error) {
	return RegisterRoutesWithOptions(mux, basePath, c.Options())
}
