package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-orderstatus/pkg/orderstatus"
	"github.com/goliatone/go-orderstatus/pkg/render"
	rendertemplate "github.com/goliatone/go-orderstatus/pkg/render/template"
	"github.com/goliatone/go-orderstatus/pkg/render/template/gotemplate"
)

const (
	formTemplate = "order_status.tpl"
	pageTemplate = "page.tpl"

	defaultPageTitle = "Order status"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templatesDir     string
	templateRenderer rendertemplate.TemplateRenderer
	theme            *theme.RendererConfig
	assetsPath       string
	pageTitle        string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir layers templates from a directory on disk over the
// bundle. Templates missing from the directory resolve from the bundle.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		cfg.templatesDir = strings.TrimSpace(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTheme applies theme name, variant and CSS variables to the form.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(c *config) {
		c.theme = cfg
	}
}

// WithAssetsPath sets the URL prefix the page template links the stylesheet
// and script from. Empty disables the tags.
func WithAssetsPath(prefix string) Option {
	return func(cfg *config) {
		cfg.assetsPath = strings.TrimRight(strings.TrimSpace(prefix), "/")
	}
}

// WithPageTitle overrides the document title used by RenderPage.
func WithPageTitle(title string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(title); trimmed != "" {
			cfg.pageTitle = trimmed
		}
	}
}

// Renderer renders the order status form as server-side HTML.
type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	theme      *theme.RendererConfig
	assetsPath string
	pageTitle  string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), pageTitle: defaultPageTitle}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		var engineOpts []gotemplate.Option
		if cfg.templatesDir != "" {
			engineOpts = append(engineOpts, gotemplate.WithBaseDir(cfg.templatesDir))
		}
		engineOpts = append(engineOpts, gotemplate.WithFS(cfg.templateFS))
		engine, err := gotemplate.New(engineOpts...)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:  renderer,
		theme:      cfg.theme,
		assetsPath: cfg.assetsPath,
		pageTitle:  cfg.pageTitle,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the form fragment for view.
func (r *Renderer) Render(_ context.Context, view orderstatus.View, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	result, err := r.templates.RenderTemplate(formTemplate, map[string]any{
		"form":  buildFormContext(view, options),
		"theme": buildThemeContext(r.theme),
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

// RenderPage wraps the form fragment in a standalone HTML document.
func (r *Renderer) RenderPage(ctx context.Context, view orderstatus.View, options render.RenderOptions) ([]byte, error) {
	form, err := r.Render(ctx, view, options)
	if err != nil {
		return nil, err
	}

	page := map[string]any{
		"title":      r.pageTitle,
		"form":       string(form),
		"stylesheet": r.assetURL(StylesheetName),
		"script":     r.assetURL(ScriptName),
	}
	if r.theme != nil && r.theme.AssetURL != nil {
		if href := r.theme.AssetURL(StylesheetName); href != "" {
			page["stylesheet"] = href
		}
	}

	result, err := r.templates.RenderTemplate(pageTemplate, map[string]any{"page": page})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render page: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) assetURL(name string) string {
	if r.assetsPath == "" {
		return ""
	}
	return r.assetsPath + "/" + name
}
