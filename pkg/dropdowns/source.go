package dropdowns

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/goliatone/go-orderstatus/pkg/gviz"
)

// Source yields the raw records of the dropdown sheet, one string per cell.
// Absent cells are reported as "".
type Source interface {
	Name() string
	Records(ctx context.Context) ([][]string, error)
}

// SourceFunc adapts a function into a Source.
type SourceFunc func(ctx context.Context) ([][]string, error)

func (fn SourceFunc) Name() string { return "func" }

func (fn SourceFunc) Records(ctx context.Context) ([][]string, error) {
	return fn(ctx)
}

// GVizSource reads the sheet through its published visualization feed.
type GVizSource struct {
	URL     string
	Client  *http.Client
	Timeout time.Duration
}

// Name reports the source kind.
func (s *GVizSource) Name() string { return "gviz" }

// Records fetches the feed and decodes its table.
func (s *GVizSource) Records(ctx context.Context) ([][]string, error) {
	body, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	table, err := gviz.Decode(body)
	if err != nil {
		return nil, err
	}
	return table.Records(), nil
}

func (s *GVizSource) fetch(ctx context.Context) ([]byte, error) {
	if s == nil || strings.TrimSpace(s.URL) == "" {
		return nil, errors.New("dropdowns: sheet url is required")
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	reqCtx := ctx
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New("dropdowns: unexpected status " + resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// XLSXSource reads a downloaded copy of the dropdown sheet. Sheet selects the
// tab by name; when empty the first tab is used. Open overrides how the
// workbook is obtained (defaults to opening Path).
type XLSXSource struct {
	Path  string
	Sheet string
	Open  func() (io.ReadCloser, error)
}

// Name reports the source kind.
func (s *XLSXSource) Name() string { return "xlsx" }

// Records reads every row of the selected tab. Cells are read as raw values,
// without number formats applied.
func (s *XLSXSource) Records(ctx context.Context) ([][]string, error) {
	if s == nil {
		return nil, errors.New("dropdowns: xlsx source is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	book, err := s.workbook()
	if err != nil {
		return nil, err
	}
	defer func() { _ = book.Close() }()

	sheet := strings.TrimSpace(s.Sheet)
	if sheet == "" {
		sheets := book.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("dropdowns: workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := book.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("dropdowns: read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func (s *XLSXSource) workbook() (*excelize.File, error) {
	if s.Open != nil {
		rc, err := s.Open()
		if err != nil {
			return nil, err
		}
		defer func() { _ = rc.Close() }()
		return excelize.OpenReader(rc)
	}
	if strings.TrimSpace(s.Path) == "" {
		return nil, errors.New("dropdowns: xlsx path is required")
	}
	return excelize.OpenFile(s.Path)
}
