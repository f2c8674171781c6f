// Package dropdowns loads the option lists used by the order status form from
// the dropdown sheet.
//
// A Loader performs one fetch against a Source, reads four fixed columns
// (H through K, indices 7 to 10) below the header row, and returns a Set. Any
// failure replaces all four lists with the fallback sequences embedded in
// data/fallbacks.yaml; partial results are never merged with fallbacks.
package dropdowns
