package fileio

import (
	"bytes"
	"errors"
	"io"
	"strings"

	xls "github.com/extrame/xls"
)

// ширина таблицы: Row.LastCol() в старых .xls ненадёжен, поэтому пробуем колонки сами
func sheetWidth(sheet *xls.WorkSheet) int {
	const probeMax = 256
	width := 0
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			continue
		}
		for j := width; j < probeMax; j++ {
			if strings.TrimSpace(row.Col(j)) != "" {
				width = j + 1
			}
		}
	}
	return max(width, 1)
}

func readXLS(r io.Reader, headerRow int) (Table, error) {
	if headerRow <= 0 {
		return nil, errors.New("headerRow must be 1-based and >= 1")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	// выгрузки из офисных пакетов во Франции почти всегда cp1252
	var wb *xls.WorkBook
	lastErr := errors.New("xls: failed to open workbook")
	for _, ch := range []string{"windows-1252", "utf-8", "iso-8859-1"} {
		wb, err = xls.OpenReader(bytes.NewReader(b), ch)
		if err == nil && wb != nil {
			break
		}
		if err != nil {
			lastErr = err
		}
	}
	if wb == nil {
		return nil, lastErr
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, nil
	}
	width := sheetWidth(sheet)
	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		cols := make([]string, width)
		if row := sheet.Row(i); row != nil {
			for j := range cols {
				cols[j] = strings.TrimSpace(row.Col(j))
			}
		}
		rows = append(rows, cols)
	}
	return rowsToMaps(rows, pickHeader(rows, headerRow), headerRow), nil
}
