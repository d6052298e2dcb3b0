package export

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/homestarrealty/buyerhunter/internal/leads"
)

// ReportMeta labels a PDF report.
type ReportMeta struct {
	Title     string
	Source    string
	Generated time.Time
}

// WritePDF renders a one-column phone table followed by the name line.
func WritePDF(w io.Writer, r leads.Result, meta ReportMeta) error {
	if meta.Title == "" {
		meta.Title = "BuyerHunter leads"
	}
	if meta.Generated.IsZero() {
		meta.Generated = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(meta.Title, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, meta.Title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	info := "Generated " + meta.Generated.Format(time.RFC3339)
	if meta.Source != "" {
		info += " from " + meta.Source
	}
	pdf.CellFormat(0, 6, info, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	if r.HasPhones() {
		pdf.CellFormat(0, 8, FoundPhones(len(r.Phones)), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetFillColor(230, 230, 230)
		pdf.CellFormat(80, 7, PhoneHeader, "1", 1, "L", true, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		for _, p := range r.Phones {
			pdf.CellFormat(80, 7, p, "1", 1, "L", false, 0, "")
		}
	} else {
		pdf.CellFormat(0, 8, MsgNoPhones, "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	if r.HasNames() {
		pdf.CellFormat(0, 8, MsgNamesFound, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, JoinNames(r.Names), "", "L", false)
	} else {
		pdf.CellFormat(0, 8, MsgNoNames, "", 1, "L", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

// WritePDFFile writes the report to path.
func WritePDFFile(path string, r leads.Result, meta ReportMeta) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create pdf: %w", err)
	}
	if err := WritePDF(f, r, meta); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
