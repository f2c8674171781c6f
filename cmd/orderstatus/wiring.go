package main

import (
	"strings"

	theme "github.com/goliatone/go-theme"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-orderstatus/internal/config"
	"github.com/goliatone/go-orderstatus/pkg/dropdowns"
)

// loaderFactory returns a constructor for per-mount loaders.
func loaderFactory(cfg config.SheetConfig, logger zerolog.Logger, recorder dropdowns.Recorder) func() *dropdowns.Loader {
	fns := loaderOptions(cfg, logger, recorder)
	return func() *dropdowns.Loader {
		return dropdowns.New(fns...)
	}
}

// loaderOptions maps the sheet settings onto loader options. A configured
// workbook path takes precedence over the feed URL. A sheet id that cannot
// form a URL leaves the feed unset, so every load falls back.
func loaderOptions(cfg config.SheetConfig, logger zerolog.Logger, recorder dropdowns.Recorder) []dropdowns.OptionFn {
	feedURL, err := cfg.FeedURL()
	if err != nil {
		logger.Warn().Err(err).Msg("dropdown sheet url not usable")
	}
	fns := []dropdowns.OptionFn{
		dropdowns.WithSheetURL(feedURL),
		dropdowns.WithTimeout(cfg.Timeout),
		dropdowns.WithHeaderRows(cfg.HeaderRows),
		dropdowns.WithLogger(logger),
	}
	if recorder != nil {
		fns = append(fns, dropdowns.WithRecorder(recorder))
	}
	if path := strings.TrimSpace(cfg.XLSXPath); path != "" {
		fns = append(fns, dropdowns.WithSource(&dropdowns.XLSXSource{
			Path:  path,
			Sheet: cfg.XLSXSheet,
		}))
	}
	return fns
}

// themeConfig maps the theme settings onto the renderer config. Nil means no
// theme classes or variables are emitted.
func themeConfig(cfg config.ThemeConfig) *theme.RendererConfig {
	if cfg.Name == "" && cfg.Variant == "" && len(cfg.CSSVars) == 0 {
		return nil
	}
	vars := make(map[string]string, len(cfg.CSSVars))
	for key, value := range cfg.CSSVars {
		vars[key] = value
	}
	return &theme.RendererConfig{
		Theme:   cfg.Name,
		Variant: cfg.Variant,
		CSSVars: vars,
	}
}
