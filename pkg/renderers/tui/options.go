package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-orderstatus/pkg/orderstatus"
)

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// ParseOutputFormat maps a flag value onto an OutputFormat.
func ParseOutputFormat(raw string) (OutputFormat, bool) {
	switch OutputFormat(raw) {
	case "", OutputFormatJSON:
		return OutputFormatJSON, true
	case OutputFormatFormURLEncoded:
		return OutputFormatFormURLEncoded, true
	case OutputFormatPrettyText:
		return OutputFormatPrettyText, true
	default:
		return "", false
	}
}

// Theme captures optional formatting hints the driver can apply when printing
// messages.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
	InfoStyle   *lipgloss.Style
	ErrorStyle  *lipgloss.Style
}

// DefaultTheme returns the colored prefixes used by the fill command.
// Colors are dropped automatically when the output is not a terminal.
func DefaultTheme() Theme {
	info := lipgloss.NewStyle().Foreground(lipgloss.Color("#A78BFA"))
	failure := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	return Theme{
		InfoPrefix:  "i ",
		ErrorPrefix: "x ",
		InfoStyle:   &info,
		ErrorStyle:  &failure,
	}
}

func (t Theme) info(msg string) string {
	return styled(t.InfoStyle, t.InfoPrefix+msg)
}

func (t Theme) failure(msg string) string {
	return styled(t.ErrorStyle, t.ErrorPrefix+msg)
}

func styled(style *lipgloss.Style, text string) string {
	if style == nil {
		return text
	}
	return style.Render(text)
}

// FileResolver turns a path typed at a file prompt into a file handle.
type FileResolver func(path string) (orderstatus.FileHandle, error)

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithSubmitPolicy decides whether values typed in a branch that was later
// deselected end up in the output.
func WithSubmitPolicy(policy orderstatus.SubmitPolicy) Option {
	return func(r *Renderer) {
		if policy != "" {
			r.policy = policy
		}
	}
}

// WithFileResolver overrides how file prompt answers become file handles.
func WithFileResolver(fn FileResolver) Option {
	return func(r *Renderer) {
		if fn != nil {
			r.files = fn
		}
	}
}

// WithConfirm asks for a final confirmation before serializing.
func WithConfirm(enabled bool) Option {
	return func(r *Renderer) {
		r.confirm = enabled
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}
