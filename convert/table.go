package convert

import (
	"encoding/csv"
	"io"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/clinterm/oncotree-fhir/models/fhir"
)

// TableRow is one line of the flat export: the concept code, its display
// label and the parent code, empty for roots.
type TableRow struct {
	Code   string
	Label  string
	Parent string
}

// ExportTable projects a built document into flat rows, one per concept,
// sorted ascending by code. It only reads the document, so the table can
// never diverge from the document on concept content.
func ExportTable(codeSystem *fhir.CodeSystem) []TableRow {
	rows := make([]TableRow, 0, len(codeSystem.Concept))
	for _, concept := range codeSystem.Concept {
		row := TableRow{Code: concept.Code}
		if concept.Display != nil {
			row.Label = *concept.Display
		}
		if parent := concept.PropertyByCode("parent"); parent != nil && parent.ValueCode != nil {
			row.Parent = *parent.ValueCode
		}
		rows = append(rows, row)
	}
	slices.SortFunc(rows, func(a, b TableRow) int {
		return strings.Compare(a.Code, b.Code)
	})
	return rows
}

// WriteTable writes the rows as header-less tab-separated lines, suitable for
// import into CSIRO's Snapper tool.
func WriteTable(w io.Writer, rows []TableRow) error {
	tsv := csv.NewWriter(w)
	tsv.Comma = '\t'
	for _, row := range rows {
		if err := tsv.Write([]string{row.Code, row.Label, row.Parent}); err != nil {
			return err
		}
	}
	tsv.Flush()
	return tsv.Error()
}
