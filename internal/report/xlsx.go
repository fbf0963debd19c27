package report

import (
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Sheet names in the exported workbook.
const (
	SheetComparison = "Comparison"
	SheetDetails    = "Details"
)

var detailHeader = []string{
	"Title", "Company", "Website", "Pricing", "Marketing Focus",
	"Key Features", "Tech Stack", "Customer Feedback",
}

// WriteXLSX writes a two-sheet workbook: the comparison table and the full
// detail views, one competitor per row. List fields are newline-joined.
func WriteXLSX(w io.Writer, table Table, details []Detail) error {
	f, err := buildWorkbook(table, details)
	if err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "xlsx: write workbook")
	}
	return nil
}

// SaveXLSX writes the workbook to path.
func SaveXLSX(path string, table Table, details []Detail) error {
	f, err := buildWorkbook(table, details)
	if err != nil {
		return err
	}
	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "xlsx: save %s", path)
	}
	return nil
}

func buildWorkbook(table Table, details []Detail) (*xlsx.File, error) {
	f := xlsx.NewFile()

	cmp, err := f.AddSheet(SheetComparison)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: add comparison sheet")
	}
	addRow(cmp, table.Columns)
	for _, row := range table.Rows {
		addRow(cmp, row)
	}

	det, err := f.AddSheet(SheetDetails)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: add details sheet")
	}
	addRow(det, detailHeader)
	for _, d := range details {
		addRow(det, []string{
			d.Title,
			d.CompanyName,
			d.Website,
			d.Pricing,
			d.MarketingFocus,
			strings.Join(d.KeyFeatures, "\n"),
			strings.Join(d.TechStack, "\n"),
			d.CustomerFeedback,
		})
	}

	return f, nil
}

func addRow(sheet *xlsx.Sheet, cells []string) {
	row := sheet.AddRow()
	for _, c := range cells {
		row.AddCell().SetString(c)
	}
}
