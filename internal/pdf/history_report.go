package pdf

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jung-kurt/gofpdf"

	"taskmanager/internal/models"
)

// HistoryReport renders a task's audit trail as an A4 PDF.
type HistoryReport struct {
	FontPath string // optional TTF, e.g. "assets/fonts/DejaVuSans.ttf"
	fontName string
	utf8     bool
}

func NewHistoryReport(fontPath string) *HistoryReport {
	r := &HistoryReport{FontPath: fontPath, fontName: "Helvetica"}
	if fontPath != "" {
		if _, err := os.Stat(fontPath); err == nil {
			r.fontName = "DejaVu"
			r.utf8 = true
		}
	}
	return r
}

var columnWidths = []float64{38, 52, 40, 40}

func (r *HistoryReport) Render(w io.Writer, task *models.Task, history []models.TaskHistory) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Task #%d history", task.ID), r.utf8)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	tr := func(s string) string { return s }
	if r.utf8 {
		pdf.AddUTF8Font(r.fontName, "", r.FontPath)
		pdf.AddUTF8Font(r.fontName, "B", r.FontPath)
	} else {
		tr = pdf.UnicodeTranslatorFromDescriptor("")
	}

	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(r.fontName, "", 9)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont(r.fontName, "B", 16)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("Task #%d: %s", task.ID, task.Title)), "", 1, "L", false, 0, "")
	r.hr(pdf)

	r.kvLine(pdf, tr, "Status", string(task.Status))
	r.kvLine(pdf, tr, "Priority", string(task.Priority))
	r.kvLine(pdf, tr, "Due date", models.FormatDate(task.DueDate))
	r.kvLine(pdf, tr, "Archived", fmt.Sprintf("%v", task.Archived))
	r.kvLine(pdf, tr, "Created", task.CreatedAt.UTC().Format(time.RFC3339))
	pdf.Ln(3)
	r.hr(pdf)

	pdf.SetFont(r.fontName, "B", 10)
	for i, h := range []string{"Changed at", "Field", "Old value", "New value"} {
		pdf.CellFormat(columnWidths[i], 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(r.fontName, "", 9)
	if len(history) == 0 {
		pdf.CellFormat(0, 7, "No changes recorded", "1", 1, "C", false, 0, "")
	}
	for _, h := range history {
		cells := []string{
			h.ChangedAt.UTC().Format("2006-01-02 15:04:05"),
			h.FieldChanged,
			valueOrDash(h.OldValue),
			valueOrDash(h.NewValue),
		}
		for i, c := range cells {
			pdf.CellFormat(columnWidths[i], 6, tr(truncate(pdf, c, columnWidths[i]-2)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render history report: %w", err)
	}
	return pdf.Output(w)
}

func (r *HistoryReport) kvLine(pdf *gofpdf.Fpdf, tr func(string) string, key, val string) {
	pdf.SetFont(r.fontName, "B", 11)
	pdf.CellFormat(35, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(r.fontName, "", 11)
	pdf.CellFormat(0, 6, tr(val), "", 1, "L", false, 0, "")
}

func (r *HistoryReport) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}

func valueOrDash(v *string) string {
	if v == nil {
		return "-"
	}
	return *v
}

// truncate shortens s to fit width mm in the current font.
func truncate(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
