package export

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// PDFGenerator renders report sheets as tables in a PDF document.
type PDFGenerator struct {
	pdf       *gofpdf.Fpdf
	options   PDFOptions
	translate func(string) string
}

// PDFOptions configures PDF generation
type PDFOptions struct {
	PageSize       string     `json:"page_size"`   // A4, Letter, Legal
	Orientation    string     `json:"orientation"` // portrait, landscape
	Title          string     `json:"title"`
	Subtitle       string     `json:"subtitle,omitempty"`
	Author         string     `json:"author,omitempty"`
	DateFormat     string     `json:"date_format"`
	IncludePageNum bool       `json:"include_page_num"`
	HeaderColor    PDFColor   `json:"header_color"`
	AlternateRows  bool       `json:"alternate_rows"`
	AlternateColor PDFColor   `json:"alternate_color"`
	FontFamily     string     `json:"font_family"`
	FontSize       float64    `json:"font_size"`
	HeaderFontSize float64    `json:"header_font_size"`
	TitleFontSize  float64    `json:"title_font_size"`
	Margins        PDFMargins `json:"margins"`
}

// PDFColor represents an RGB color
type PDFColor struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// PDFMargins represents page margins
type PDFMargins struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// DefaultPDFOptions returns default PDF options
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		PageSize:       "A4",
		Orientation:    "landscape",
		Title:          "Report",
		DateFormat:     "2006-01-02 15:04",
		IncludePageNum: true,
		HeaderColor:    PDFColor{R: 68, G: 114, B: 196},
		AlternateRows:  true,
		AlternateColor: PDFColor{R: 242, G: 242, B: 242},
		FontFamily:     "Arial",
		FontSize:       7,
		HeaderFontSize: 7,
		TitleFontSize:  16,
		Margins: PDFMargins{
			Left:   10,
			Right:  10,
			Top:    15,
			Bottom: 15,
		},
	}
}

// NewPDFGenerator creates a new PDF generator
func NewPDFGenerator(options PDFOptions) *PDFGenerator {
	orientation := "P"
	if options.Orientation == "landscape" {
		orientation = "L"
	}

	pdf := gofpdf.New(orientation, "mm", options.PageSize, "")
	pdf.SetMargins(options.Margins.Left, options.Margins.Top, options.Margins.Right)
	pdf.SetAutoPageBreak(false, options.Margins.Bottom)
	pdf.SetTitle(options.Title, true)
	if options.Author != "" {
		pdf.SetAuthor(options.Author, true)
	}

	g := &PDFGenerator{
		pdf:       pdf,
		options:   options,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
	}
	g.setFooter()
	return g
}

// Generate renders a title page header followed by one table per sheet.
func (g *PDFGenerator) Generate(sheets []Sheet, generatedAt time.Time) error {
	g.pdf.SetCreationDate(generatedAt)
	g.pdf.AddPage()
	g.addTitle()
	if g.options.Subtitle != "" {
		g.addSubtitle()
	}
	g.addDate(generatedAt)

	for _, sheet := range sheets {
		g.pdf.Ln(6)
		g.addSection(sheet)
	}
	return g.pdf.Error()
}

// addTitle adds the report title
func (g *PDFGenerator) addTitle() {
	g.pdf.SetFont(g.options.FontFamily, "B", g.options.TitleFontSize)
	g.pdf.SetTextColor(0, 0, 0)
	g.pdf.CellFormat(0, 10, g.translate(g.options.Title), "", 1, "C", false, 0, "")
}

// addSubtitle adds the report subtitle
func (g *PDFGenerator) addSubtitle() {
	g.pdf.SetFont(g.options.FontFamily, "", g.options.FontSize+4)
	g.pdf.SetTextColor(100, 100, 100)
	g.pdf.CellFormat(0, 8, g.translate(g.options.Subtitle), "", 1, "C", false, 0, "")
}

// addDate adds the report generation date
func (g *PDFGenerator) addDate(at time.Time) {
	g.pdf.SetFont(g.options.FontFamily, "", g.options.FontSize+1)
	g.pdf.SetTextColor(128, 128, 128)
	dateStr := fmt.Sprintf("Generated: %s", at.Format(g.options.DateFormat))
	g.pdf.CellFormat(0, 6, dateStr, "", 1, "R", false, 0, "")
}

func (g *PDFGenerator) addSection(sheet Sheet) {
	g.ensureSpace(24)
	g.pdf.SetFont(g.options.FontFamily, "B", g.options.FontSize+4)
	g.pdf.SetTextColor(0, 0, 0)
	g.pdf.CellFormat(0, 8, g.translate(sheet.Name), "", 1, "L", false, 0, "")

	widths := g.calculateColumnWidths(sheet)
	g.addTableHeader(sheet.Columns, widths)
	g.addTableData(sheet, widths)
}

func (g *PDFGenerator) ensureSpace(height float64) bool {
	_, pageHeight := g.pdf.GetPageSize()
	if g.pdf.GetY()+height > pageHeight-g.options.Margins.Bottom {
		g.pdf.AddPage()
		return true
	}
	return false
}

// calculateColumnWidths sizes columns to their content and scales them
// to fit the page.
func (g *PDFGenerator) calculateColumnWidths(sheet Sheet) []float64 {
	pageWidth, _ := g.pdf.GetPageSize()
	availableWidth := pageWidth - g.options.Margins.Left - g.options.Margins.Right

	widths := make([]float64, len(sheet.Columns))

	g.pdf.SetFont(g.options.FontFamily, "B", g.options.HeaderFontSize)
	for i, label := range sheet.Columns {
		widths[i] = g.pdf.GetStringWidth(g.translate(label)) + 4
	}

	g.pdf.SetFont(g.options.FontFamily, "", g.options.FontSize)
	for _, row := range sheet.Rows {
		for i, val := range row {
			if i >= len(widths) {
				break
			}
			if w := g.pdf.GetStringWidth(g.translate(g.formatValue(val))) + 4; w > widths[i] {
				widths[i] = w
			}
		}
	}

	total := 0.0
	for _, w := range widths {
		total += w
	}
	if total > availableWidth {
		scale := availableWidth / total
		for i := range widths {
			widths[i] *= scale
		}
	}
	return widths
}

// addTableHeader adds the table header row
func (g *PDFGenerator) addTableHeader(labels []string, widths []float64) {
	g.pdf.SetFont(g.options.FontFamily, "B", g.options.HeaderFontSize)
	g.pdf.SetFillColor(g.options.HeaderColor.R, g.options.HeaderColor.G, g.options.HeaderColor.B)
	g.pdf.SetTextColor(255, 255, 255)

	for i, label := range labels {
		g.pdf.CellFormat(widths[i], 7, g.fit(label, widths[i]), "1", 0, "C", true, 0, "")
	}
	g.pdf.Ln(-1)
}

// addTableData adds the data rows
func (g *PDFGenerator) addTableData(sheet Sheet, widths []float64) {
	g.pdf.SetFont(g.options.FontFamily, "", g.options.FontSize)
	g.pdf.SetTextColor(0, 0, 0)

	for i, row := range sheet.Rows {
		if g.ensureSpace(6) {
			g.addTableHeader(sheet.Columns, widths)
			g.pdf.SetFont(g.options.FontFamily, "", g.options.FontSize)
			g.pdf.SetTextColor(0, 0, 0)
		}

		if g.options.AlternateRows && i%2 == 1 {
			g.pdf.SetFillColor(g.options.AlternateColor.R, g.options.AlternateColor.G, g.options.AlternateColor.B)
		} else {
			g.pdf.SetFillColor(255, 255, 255)
		}

		for j := range sheet.Columns {
			var val interface{}
			if j < len(row) {
				val = row[j]
			}
			align := "L"
			switch val.(type) {
			case float64, int:
				align = "R"
			}
			g.pdf.CellFormat(widths[j], 6, g.fit(g.formatValue(val), widths[j]), "1", 0, align, true, 0, "")
		}
		g.pdf.Ln(-1)
	}
}

// fit translates s and truncates it to the cell width.
func (g *PDFGenerator) fit(s string, width float64) string {
	s = g.translate(s)
	if g.pdf.GetStringWidth(s) <= width-2 {
		return s
	}
	for len(s) > 0 && g.pdf.GetStringWidth(s+"...") > width-2 {
		s = s[:len(s)-1]
	}
	return s + "..."
}

// formatValue formats a value for display
func (g *PDFGenerator) formatValue(val interface{}) string {
	if val == nil {
		return ""
	}

	switch v := val.(type) {
	case string:
		return v
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.Format(g.options.DateFormat)
	case float64:
		return strconv.FormatFloat(v, 'f', 4, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// WriteTo writes the PDF to a writer
func (g *PDFGenerator) WriteTo(w io.Writer) error {
	return g.pdf.Output(w)
}

// setFooter sets up the page footer
func (g *PDFGenerator) setFooter() {
	g.pdf.SetFooterFunc(func() {
		if !g.options.IncludePageNum {
			return
		}
		g.pdf.SetY(-12)
		g.pdf.SetFont(g.options.FontFamily, "", 8)
		g.pdf.SetTextColor(128, 128, 128)
		g.pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", g.pdf.PageNo()), "", 0, "C", false, 0, "")
	})
}
