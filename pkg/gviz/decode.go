package gviz

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"
)

// Payload returns the JSON span of a wrapped response: everything from the
// first '{' up to and including the last '}'.
func Payload(body []byte) ([]byte, error) {
	if len(body) == 0 {
		return nil, ErrEmptyBody
	}
	start := bytes.IndexByte(body, '{')
	end := bytes.LastIndexByte(body, '}')
	if start < 0 || end < 0 || end < start {
		return nil, ErrPayloadMarkersNotFound
	}
	return body[start : end+1], nil
}

// Decode extracts and parses the payload of a wrapped response and returns
// its table. A payload without a table (or with a null rows list) yields
// ErrMissingTable.
func Decode(body []byte) (*Table, error) {
	payload, err := Payload(body)
	if err != nil {
		return nil, err
	}

	var resp Response
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, &DecodeError{Offset: bytes.IndexByte(body, '{'), Err: err}
	}
	if resp.Table == nil || resp.Table.Rows == nil {
		return nil, ErrMissingTable
	}
	return resp.Table, nil
}

// SheetURL builds the feed URL for a published sheet. sheetName selects the
// tab by name; an empty name targets the first one.
func SheetURL(sheetID, sheetName string) (string, error) {
	sheetID = strings.TrimSpace(sheetID)
	if sheetID == "" {
		return "", fmt.Errorf("gviz: sheet id is required")
	}
	query := url.Values{}
	query.Set("tqx", "out:json")
	if sheetName = strings.TrimSpace(sheetName); sheetName != "" {
		query.Set("sheet", sheetName)
	}
	return "https://docs.google.com/spreadsheets/d/" + url.PathEscape(sheetID) + "/gviz/tq?" + query.Encode(), nil
}
