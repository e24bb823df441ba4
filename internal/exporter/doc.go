// Package exporter writes dashboard data as CSV.
//
// Panel tables, the crude-rate table and the full joined dataset can be
// written to any io.Writer, such as an HTTP response, or to files in the
// configured export directory. Files carry a UTF-8 BOM so spreadsheet
// applications read the Spanish accents correctly.
//
// Example usage:
//
//	w := exporter.NewCSVWriter(paths)
//	path, err := w.WriteTableFile("monthly", panel.Table)
//
//	n, err := exporter.WriteJoined(resp, dataset, false)
package exporter
