// Package gviz decodes the text-wrapped JSON responses served by spreadsheet
// visualization query endpoints (the "gviz/tq" feed).
//
// Responses look like `/*O_o*/ google.visualization.Query.setResponse({...});`.
// Decode locates the payload between the first '{' and the last '}', parses it,
// and exposes the table as rows of optional cells.
package gviz
