package main

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-orderstatus/internal/config"
	"github.com/goliatone/go-orderstatus/pkg/dropdowns"
)

type optionsReport struct {
	Source    string        `json:"source"`
	Origin    string        `json:"origin"`
	ElapsedMS int64         `json:"elapsedMs"`
	Error     string        `json:"error,omitempty"`
	Data      dropdowns.Set `json:"data"`
}

func newOptionsCmd(a *app) *cobra.Command {
	var (
		sheetURL string
		xlsxPath string
		compact  bool
	)

	cmd := &cobra.Command{
		Use:   "options",
		Short: "Load the dropdown sheet once and print the option lists",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			sheet := a.cfg.Sheet
			if sheetURL != "" {
				sheet.URL = sheetURL
			}
			if xlsxPath != "" {
				sheet.XLSXPath = xlsxPath
			}

			report := loadReport(ctx, sheet, a)
			var (
				out []byte
				err error
			)
			if compact {
				out, err = json.Marshal(report)
			} else {
				out, err = json.MarshalIndent(report, "", "  ")
			}
			if err != nil {
				return fmt.Errorf("encode options: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(append(out, '\n'))
			return err
		},
	}

	cmd.Flags().StringVar(&sheetURL, "url", "", "sheet feed URL (overrides sheet.url)")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "workbook path (overrides sheet.xlsx_path)")
	cmd.Flags().BoolVar(&compact, "compact", false, "print single-line JSON")
	return cmd
}

func loadReport(ctx context.Context, sheet config.SheetConfig, a *app) optionsReport {
	result := loaderFactory(sheet, a.logger, nil)().Load(ctx)
	report := optionsReport{
		Source:    result.Source,
		Origin:    string(result.Origin),
		ElapsedMS: result.Elapsed.Milliseconds(),
		Data:      result.Set,
	}
	if result.Err != nil {
		report.Error = result.Err.Error()
	}
	return report
}
