package xlsx

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/boutique-ledger/internal/application/exports"
)

const defaultSheet = "Sheet1"

// ExcelizeWriter implementa exports.Writer con excelize.
type ExcelizeWriter struct {
	colWidth float64
}

// NewExcelizeWriter crea el escritor de libros xlsx.
func NewExcelizeWriter() *ExcelizeWriter {
	return &ExcelizeWriter{colWidth: 20}
}

// Workbook escribe cada hoja con la cabecera en negrita y fija, y los importes como números.
func (w *ExcelizeWriter) Workbook(ctx context.Context, book *exports.Workbook) ([]byte, error) {
	if len(book.Sheets) == 0 {
		return nil, fmt.Errorf("xlsx: libro sin hojas")
	}
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	for i, sheet := range book.Sheets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i == 0 {
			err = f.SetSheetName(defaultSheet, sheet.Name)
		} else {
			_, err = f.NewSheet(sheet.Name)
		}
		if err != nil {
			return nil, fmt.Errorf("xlsx: hoja %q: %w", sheet.Name, err)
		}
		if err := w.writeSheet(f, sheet, bold); err != nil {
			return nil, fmt.Errorf("xlsx: hoja %q: %w", sheet.Name, err)
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

func (w *ExcelizeWriter) writeSheet(f *excelize.File, sheet exports.Sheet, headerStyle int) error {
	header := make([]any, len(sheet.Headers))
	for i, h := range sheet.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet.Name, "A1", &header); err != nil {
		return err
	}
	if err := f.SetRowStyle(sheet.Name, 1, 1, headerStyle); err != nil {
		return err
	}

	for r, row := range sheet.Rows {
		cells := make([]any, len(row))
		for c, v := range row {
			cells[c] = cellValue(v)
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet.Name, cell, &cells); err != nil {
			return err
		}
	}

	if len(sheet.Headers) > 0 {
		last, err := excelize.ColumnNumberToName(len(sheet.Headers))
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet.Name, "A", last, w.colWidth); err != nil {
			return err
		}
	}
	return f.SetPanes(sheet.Name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// cellValue pasa los importes a float64 para que la celda sea numérica.
func cellValue(v any) any {
	switch x := v.(type) {
	case decimal.Decimal:
		return x.InexactFloat64()
	case *decimal.Decimal:
		if x == nil {
			return 0
		}
		return x.InexactFloat64()
	}
	return v
}
