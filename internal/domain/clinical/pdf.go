package clinical

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/clinicboard/clinicboard/internal/platform/apperr"
)

// RenderPDF lays the note out on A4 pages: a header with patient, author
// and date, then the note body wrapped to the page width.
func RenderPDF(n *Note) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(n.Type+" note", true)
	pdf.SetAutoPageBreak(true, 20)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Note %s  |  Page %d", n.ID, pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr(n.Type), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 6, tr("Patient: "+n.PatientName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr("Author: "+n.authorName()), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Written: "+n.CreatedAt.UTC().Format("02 Jan 2006 15:04 MST"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 11)
	pdf.MultiCell(0, 5, tr(n.Content), "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, apperr.Internal("failed to render clinical note", err)
	}
	return buf.Bytes(), nil
}
