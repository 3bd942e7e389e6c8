package fileio

import (
	"io"

	excelize "github.com/xuri/excelize/v2"
)

// readXLSX первый лист книги.
func readXLSX(r io.Reader, headerRow int) (Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rowsToMaps(rows, pickHeader(rows, headerRow), headerRow), nil
}
