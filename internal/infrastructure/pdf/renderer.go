// Package pdf draws the downloadable audit report.
package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/resyne/site-api/internal/audit/domain"
)

type rgb struct{ r, g, b int }

var (
	colorDark  = rgb{26, 22, 45}
	colorGold  = rgb{202, 156, 42}
	colorLight = rgb{248, 249, 251}
	colorWhite = rgb{255, 255, 255}
	colorMuted = rgb{231, 231, 231}
)

const (
	pageWidth     = 210.0
	marginLeft    = 15.0
	contentWidth  = 180.0
	textWidth     = 170.0
	lineHeight    = 5.0
	firstContentY = 116.0
	pageTopY      = 30.0
	sectionLimitY = 250.0
	lineLimitY    = 270.0
)

// Renderer renders audit reports with gofpdf.
type Renderer struct {
	location *time.Location
}

func NewRenderer(loc *time.Location) *Renderer {
	if loc == nil {
		loc = time.UTC
	}
	return &Renderer{location: loc}
}

// Render draws the header, the contact block, one gold bar per section and a
// footer with the page count on every page.
func (r *Renderer) Render(doc domain.ReportDocument) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginLeft, marginLeft)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AliasNbPages("{nb}")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		fill(pdf, colorDark)
		pdf.Rect(0, 280, pageWidth, 17, "F")

		text(pdf, colorGold)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.Text(20, 290, "RESYNE - Digital Innovation Partners")

		text(pdf, colorMuted)
		pdf.SetFont("Helvetica", "", 10)
		pdf.Text(170, 290, fmt.Sprintf("Pagina %d di {nb}", pdf.PageNo()))

		text(pdf, colorWhite)
		pdf.Text(20, 295, "Tel. +393911491256")
		pdf.Text(110, 295, "contact@re-syne.com")
	})

	pdf.AddPage()
	r.drawHeader(pdf)
	r.drawContact(pdf, tr, doc)

	y := firstContentY
	for _, section := range domain.SplitSections(doc.Report) {
		if section.Title != "" {
			if y > sectionLimitY {
				pdf.AddPage()
				y = pageTopY
			}
			fill(pdf, colorGold)
			pdf.Rect(marginLeft, y-5, contentWidth, 8, "F")
			text(pdf, colorWhite)
			pdf.SetFont("Helvetica", "B", 12)
			pdf.Text(20, y, tr(section.Title))
			y += 15
		}

		text(pdf, colorDark)
		pdf.SetFont("Helvetica", "", 10)
		for _, line := range wrap(pdf, tr(section.Body)) {
			if y > lineLimitY {
				pdf.AddPage()
				y = pageTopY
				text(pdf, colorDark)
				pdf.SetFont("Helvetica", "", 10)
			}
			pdf.Text(20, y, line)
			y += lineHeight
		}
		y += 10
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawHeader(pdf *gofpdf.Fpdf) {
	fill(pdf, colorDark)
	pdf.Rect(0, 0, pageWidth, 60, "F")

	text(pdf, colorWhite)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.Text(15, 22, "RESYNE")

	text(pdf, colorGold)
	pdf.SetFont("Helvetica", "B", 24)
	pdf.Text(70, 25, "AUDIT AI")
	pdf.SetFont("Helvetica", "", 16)
	pdf.Text(70, 35, "REPORT PERSONALIZZATO")
}

func (r *Renderer) drawContact(pdf *gofpdf.Fpdf, tr func(string) string, doc domain.ReportDocument) {
	fill(pdf, colorLight)
	pdf.Rect(marginLeft, 70, contentWidth, 25, "F")

	text(pdf, colorDark)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(20, 80, tr("Generato per:"))

	c := doc.Contact
	pdf.SetFont("Helvetica", "", 11)
	pdf.Text(20, 87, tr(c.FullName()))
	pdf.Text(20, 93, tr(c.Company))
	pdf.Text(20, 99, tr("Email: "+c.Email))
	pdf.Text(120, 87, tr("Telefono: "+c.Phone))

	generated := doc.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	pdf.Text(120, 93, "Data: "+generated.In(r.location).Format("2/1/2006"))
}

// wrap splits body text into lines that fit the content column, keeping
// paragraph breaks.
func wrap(pdf *gofpdf.Fpdf, body string) []string {
	var lines []string
	for _, paragraph := range strings.Split(body, "\n") {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			lines = append(lines, "")
			continue
		}
		for _, line := range pdf.SplitLines([]byte(paragraph), textWidth) {
			lines = append(lines, string(line))
		}
	}
	return lines
}

func fill(pdf *gofpdf.Fpdf, c rgb) { pdf.SetFillColor(c.r, c.g, c.b) }
func text(pdf *gofpdf.Fpdf, c rgb) { pdf.SetTextColor(c.r, c.g, c.b) }
