package export

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// ExcelOptions configures Excel export behavior
type ExcelOptions struct {
	FreezeHeader bool              `json:"freeze_header"`
	AutoFilter   bool              `json:"auto_filter"`
	NumberFormat string            `json:"number_format"`
	HeaderStyle  *ExcelStyleConfig `json:"header_style,omitempty"`
	DataStyle    *ExcelStyleConfig `json:"data_style,omitempty"`
	AutoWidth    bool              `json:"auto_width"`
}

// ExcelStyleConfig defines style for cells
type ExcelStyleConfig struct {
	FontBold  bool   `json:"font_bold"`
	FontSize  int    `json:"font_size"`
	FontColor string `json:"font_color"`
	FillColor string `json:"fill_color"`
	Alignment string `json:"alignment"` // left, center, right
	Border    bool   `json:"border"`
	WrapText  bool   `json:"wrap_text"`
}

// DefaultExcelOptions returns default Excel export options
func DefaultExcelOptions() ExcelOptions {
	return ExcelOptions{
		FreezeHeader: true,
		AutoFilter:   true,
		NumberFormat: "#,##0.00####",
		AutoWidth:    true,
		HeaderStyle: &ExcelStyleConfig{
			FontBold:  true,
			FontSize:  11,
			FillColor: "4472C4",
			FontColor: "FFFFFF",
			Alignment: "center",
			Border:    true,
		},
		DataStyle: &ExcelStyleConfig{
			FontSize:  11,
			Alignment: "left",
			Border:    true,
		},
	}
}

// MultiSheetExporter writes report sheets into a single workbook.
type MultiSheetExporter struct {
	file    *excelize.File
	options ExcelOptions
	sheets  int

	headerStyle int
	textStyle   int
	numberStyle int
}

// NewMultiSheetExporter creates a multi-sheet Excel exporter
func NewMultiSheetExporter(options ExcelOptions) (*MultiSheetExporter, error) {
	e := &MultiSheetExporter{
		file:    excelize.NewFile(),
		options: options,
	}

	var err error
	if options.HeaderStyle != nil {
		if e.headerStyle, err = e.createStyle(options.HeaderStyle, ""); err != nil {
			e.file.Close()
			return nil, fmt.Errorf("failed to create header style: %w", err)
		}
	}
	data := options.DataStyle
	if data == nil {
		data = &ExcelStyleConfig{}
	}
	if e.textStyle, err = e.createStyle(data, ""); err != nil {
		e.file.Close()
		return nil, fmt.Errorf("failed to create data style: %w", err)
	}
	if e.numberStyle, err = e.createStyle(data, options.NumberFormat); err != nil {
		e.file.Close()
		return nil, fmt.Errorf("failed to create number style: %w", err)
	}
	return e, nil
}

// AddSheet adds a sheet with data. The first sheet replaces the default
// empty sheet of a new workbook.
func (e *MultiSheetExporter) AddSheet(sheet Sheet) error {
	if e.sheets == 0 {
		if err := e.file.SetSheetName("Sheet1", sheet.Name); err != nil {
			return fmt.Errorf("failed to create sheet: %w", err)
		}
	} else if _, err := e.file.NewSheet(sheet.Name); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	e.sheets++

	if err := e.writeHeader(sheet.Name, sheet.Columns); err != nil {
		return err
	}
	return e.writeRows(sheet)
}

// writeHeader writes the header row with styling
func (e *MultiSheetExporter) writeHeader(sheetName string, columns []string) error {
	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := e.file.SetCellValue(sheetName, cell, col); err != nil {
			return fmt.Errorf("failed to set header: %w", err)
		}
		if e.headerStyle > 0 {
			e.file.SetCellStyle(sheetName, cell, cell, e.headerStyle)
		}
	}

	if e.options.FreezeHeader {
		e.file.SetPanes(sheetName, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		})
	}
	return nil
}

// writeRows writes data rows
func (e *MultiSheetExporter) writeRows(sheet Sheet) error {
	columnWidths := make([]float64, len(sheet.Columns))
	for i, col := range sheet.Columns {
		columnWidths[i] = estimateCellWidth(col)
	}

	for rowIdx, row := range sheet.Rows {
		for colIdx, val := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := e.file.SetCellValue(sheet.Name, cell, val); err != nil {
				return fmt.Errorf("failed to set cell value: %w", err)
			}

			style := e.textStyle
			switch val.(type) {
			case float64, float32:
				style = e.numberStyle
			}
			e.file.SetCellStyle(sheet.Name, cell, cell, style)

			if colIdx < len(columnWidths) {
				if w := estimateCellWidth(val); w > columnWidths[colIdx] {
					columnWidths[colIdx] = w
				}
			}
		}
	}

	if e.options.AutoFilter && len(sheet.Rows) > 0 && len(sheet.Columns) > 0 {
		lastCell, _ := excelize.CoordinatesToCellName(len(sheet.Columns), len(sheet.Rows)+1)
		if err := e.file.AutoFilter(sheet.Name, "A1:"+lastCell, nil); err != nil {
			return fmt.Errorf("failed to set auto filter: %w", err)
		}
	}

	if e.options.AutoWidth {
		for colIdx, width := range columnWidths {
			colName, _ := excelize.ColumnNumberToName(colIdx + 1)
			// Min width 10, max width 50
			if width < 10 {
				width = 10
			}
			if width > 50 {
				width = 50
			}
			e.file.SetColWidth(sheet.Name, colName, colName, width)
		}
	}
	return nil
}

// WriteTo writes the Excel file to a writer
func (e *MultiSheetExporter) WriteTo(w io.Writer) error {
	if e.sheets > 0 {
		e.file.SetActiveSheet(0)
	}
	return e.file.Write(w)
}

// Close closes the Excel file
func (e *MultiSheetExporter) Close() error {
	return e.file.Close()
}

// createStyle creates an Excel style from config
func (e *MultiSheetExporter) createStyle(config *ExcelStyleConfig, numFmt string) (int, error) {
	style := &excelize.Style{}

	style.Font = &excelize.Font{
		Bold: config.FontBold,
		Size: float64(config.FontSize),
	}
	if config.FontColor != "" {
		style.Font.Color = config.FontColor
	}

	if config.FillColor != "" {
		style.Fill = excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{config.FillColor},
		}
	}

	if config.Alignment != "" || config.WrapText {
		style.Alignment = &excelize.Alignment{
			Horizontal: config.Alignment,
			WrapText:   config.WrapText,
		}
	}

	if config.Border {
		style.Border = []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		}
	}

	if numFmt != "" {
		style.CustomNumFmt = &numFmt
	}

	return e.file.NewStyle(style)
}

// estimateCellWidth estimates the display width of a cell value
func estimateCellWidth(val interface{}) float64 {
	if val == nil {
		return 0
	}
	return float64(utf8.RuneCountInString(fmt.Sprintf("%v", val))) * 1.2
}
