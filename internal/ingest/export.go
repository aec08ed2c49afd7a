package ingest

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/bizhealth/internal/assess"
)

var summaryHeader = []string{
	"business_id", "title", "category", "overall", "financial", "growth",
	"operational", "sale_readiness", "confidence", "trajectory", "summary",
}

func summaryRow(a assess.Assessment) []string {
	s := a.Result.Scores
	return []string{
		a.BusinessID,
		a.Title,
		string(a.Category),
		strconv.Itoa(s.Overall),
		strconv.Itoa(s.Financial),
		strconv.Itoa(s.Growth),
		strconv.Itoa(s.Operational),
		strconv.Itoa(s.SaleReadiness),
		strconv.Itoa(s.Confidence),
		string(s.Trajectory),
		a.Insights.Summary,
	}
}

// WriteCSV writes one summary row per assessment.
func WriteCSV(w io.Writer, assessments []assess.Assessment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(summaryHeader); err != nil {
		return eris.Wrap(err, "ingest: csv: write header")
	}
	for _, a := range assessments {
		if a.Result == nil {
			continue
		}
		if err := cw.Write(summaryRow(a)); err != nil {
			return eris.Wrapf(err, "ingest: csv: write %s", a.BusinessID)
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "ingest: csv: flush")
}

// WriteXLSX saves the summaries to a new workbook at path.
func WriteXLSX(path string, assessments []assess.Assessment) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Health")
	if err != nil {
		return eris.Wrap(err, "ingest: xlsx: add sheet")
	}
	addRow(sheet, summaryHeader)
	for _, a := range assessments {
		if a.Result == nil {
			continue
		}
		addRow(sheet, summaryRow(a))
	}
	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "ingest: xlsx: save %s", path)
	}
	return nil
}

func addRow(sheet *xlsx.Sheet, values []string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}
