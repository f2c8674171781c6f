package config

import (
	"strings"
	"time"

	"github.com/goliatone/go-orderstatus/pkg/gviz"
)

// Config gathers every setting the orderstatus binary reads.
type Config struct {
	HTTP  HTTPConfig  `mapstructure:"http"`
	Sheet SheetConfig `mapstructure:"sheet"`
	Log   LogConfig   `mapstructure:"log"`
	Form  FormConfig  `mapstructure:"form"`
	Theme ThemeConfig `mapstructure:"theme"`
}

// HTTPConfig configures the serve command.
type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	BasePath        string        `mapstructure:"base_path"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	SessionTTL      time.Duration `mapstructure:"session_ttl"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
	Metrics         bool          `mapstructure:"metrics"`
	// RateLimit is requests per second per client on the form routes.
	// Zero disables limiting.
	RateLimit float64 `mapstructure:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst"`
}

// SheetConfig points at the dropdown sheet. URL wins over ID and Name;
// XLSXPath, when set, replaces the feed with a downloaded workbook.
type SheetConfig struct {
	URL        string        `mapstructure:"url"`
	ID         string        `mapstructure:"id"`
	Name       string        `mapstructure:"name"`
	XLSXPath   string        `mapstructure:"xlsx_path"`
	XLSXSheet  string        `mapstructure:"xlsx_sheet"`
	Timeout    time.Duration `mapstructure:"timeout"`
	HeaderRows int           `mapstructure:"header_rows"`
}

// FeedURL returns the configured URL, or the feed URL built from ID and Name.
// Both empty yields "".
func (c SheetConfig) FeedURL() (string, error) {
	if url := strings.TrimSpace(c.URL); url != "" {
		return url, nil
	}
	if strings.TrimSpace(c.ID) == "" {
		return "", nil
	}
	return gviz.SheetURL(c.ID, c.Name)
}

// LogConfig configures zerolog output.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// FormConfig holds host decisions about submitted data.
type FormConfig struct {
	SubmitPolicy string `mapstructure:"submit_policy"`
	// TemplatesDir holds template overrides layered over the bundled ones.
	TemplatesDir string `mapstructure:"templates_dir"`
}

// ThemeConfig selects the theme classes and CSS variables applied to the
// HTML form.
type ThemeConfig struct {
	Name    string            `mapstructure:"name"`
	Variant string            `mapstructure:"variant"`
	CSSVars map[string]string `mapstructure:"css_vars"`
}
