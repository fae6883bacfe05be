package export

import "strings"

// Sheet is one tabular section of a report. Cell values are strings,
// ints or float64s.
type Sheet struct {
	Name    string
	Columns []string
	Rows    [][]interface{}
}

// FileName returns the sheet name with spaces replaced, for use in
// bundle entries.
func (s Sheet) FileName(ext string) string {
	return strings.ReplaceAll(s.Name, " ", "_") + ext
}
