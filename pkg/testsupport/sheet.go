// Package testsupport builds dropdown sheet fixtures for tests: feed bodies,
// fake feed servers and in-memory workbooks.
package testsupport

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/xuri/excelize/v2"
)

// FeedPrefix is the wrapper the visualization endpoint places before the
// JSON payload.
const FeedPrefix = "/*O_o*/\ngoogle.visualization.Query.setResponse("

// FeedBody renders records as a visualization feed body. Empty strings become
// null cells; trailing empty cells are dropped so rows come out short.
func FeedBody(records [][]string) string {
	type cell struct {
		V string `json:"v"`
	}
	type row struct {
		C []*cell `json:"c"`
	}

	rows := make([]row, 0, len(records))
	for _, record := range records {
		last := len(record)
		for last > 0 && record[last-1] == "" {
			last--
		}
		cells := make([]*cell, last)
		for i := 0; i < last; i++ {
			if record[i] != "" {
				cells[i] = &cell{V: record[i]}
			}
		}
		rows = append(rows, row{C: cells})
	}

	payload, err := json.Marshal(map[string]any{
		"version": "0.6",
		"status":  "ok",
		"table":   map[string]any{"rows": rows},
	})
	if err != nil {
		panic(err)
	}
	return FeedPrefix + string(payload) + ");"
}

// SheetServer serves a fixed body with the given status code.
type SheetServer struct {
	*httptest.Server
	hits atomic.Int64
}

// Hits reports how many requests reached the server.
func (s *SheetServer) Hits() int {
	return int(s.hits.Load())
}

// NewSheetServer starts a server that answers every request with status and
// body. It is closed when the test ends.
func NewSheetServer(t *testing.T, status int, body string) *SheetServer {
	t.Helper()

	srv := &SheetServer{}
	srv.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srv.hits.Add(1)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// Workbook writes records into the first tab of a new workbook and returns
// the encoded file.
func Workbook(t *testing.T, records [][]string) []byte {
	t.Helper()

	book := excelize.NewFile()
	defer func() { _ = book.Close() }()

	sheet := book.GetSheetName(0)
	for r, record := range records {
		for c, value := range record {
			if strings.TrimSpace(value) == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := book.SetCellValue(sheet, cell, value); err != nil {
				t.Fatalf("set %s: %v", cell, err)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := book.WriteTo(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}
