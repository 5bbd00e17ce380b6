package tracker

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"workshop-golang/internal/storage"
)

const sheetName = "Đơn hàng"

// ReadSheet разбирает xlsx трекера в сырые записи. Первая строка листа —
// имена колонок, пустые строки пропускаются.
func ReadSheet(r io.Reader) ([]RawRecord, error) {
	const op = "tracker.ReadSheet"

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%s: не удалось открыть xlsx: %w", op, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var records []RawRecord
	for _, row := range rows[1:] {
		rec := make(RawRecord, len(header))
		empty := true
		for i, name := range header {
			if name == "" {
				continue
			}
			val := ""
			if i < len(row) {
				val = strings.TrimSpace(row[i])
			}
			rec[name] = val
			if val != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

// Import читает лист и канонизирует записи. Отбракованные строки считаются,
// но импорт не валят — конвейер работает с тем, что удалось разобрать.
func Import(r io.Reader) (orders []*storage.ProductionOrder, rejected int, err error) {
	records, err := ReadSheet(r)
	if err != nil {
		return nil, 0, err
	}

	for _, rec := range records {
		o, cErr := Canonicalize(rec)
		if cErr != nil {
			rejected++
			continue
		}
		orders = append(orders, o)
	}

	return orders, rejected, nil
}

// WriteSheet выгружает заказы в xlsx с каноническим набором колонок
func WriteSheet(orders []*storage.ProductionOrder) ([]byte, error) {
	const op = "tracker.WriteSheet"

	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", sheetName)

	// Жирный шрифт для шапки
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})

	for i, name := range ExportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, name)
	}

	lastCol, _ := excelize.CoordinatesToCellName(len(ExportColumns), 1)
	f.SetCellStyle(sheetName, "A1", lastCol, headerStyle)

	for rowIdx, o := range orders {
		rowNum := rowIdx + 2
		row := ExportRow(o)
		for colIdx, name := range ExportColumns {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowNum)
			f.SetCellValue(sheetName, cell, row[name])
		}
	}

	// Закрепляем шапку
	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
	})

	f.SetColWidth(sheetName, "A", "Q", 15)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return buf.Bytes(), nil
}
