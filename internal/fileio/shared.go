package fileio

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Table строки листа в виде map[заголовок]значение, в порядке файла.
type Table []map[string]string

// ReadAnyMaps выбирает парсер по расширению. headerRow — номер строки заголовков (1-based).
func ReadAnyMaps(r io.Reader, filename string, headerRow int) (Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return readXLSX(r, headerRow)
	case ".xls":
		return readXLS(r, headerRow)
	case ".csv", ".txt":
		return readCSV(r, headerRow)
	default:
		return nil, fmt.Errorf("unsupported file: %s", filename)
	}
}

// Supported можно ли прочитать файл как таблицу.
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls", ".csv", ".txt":
		return true
	}
	return false
}

func headerIndex(rows [][]string, headerRow int) int {
	idx := headerRow - 1
	if idx < 0 || idx >= len(rows) {
		return 0
	}
	return idx
}

// pickHeader берёт строку заголовков; пустые и повторяющиеся получают "Column N".
func pickHeader(rows [][]string, headerRow int) []string {
	h := rows[headerIndex(rows, headerRow)]
	out := make([]string, len(h))
	seen := make(map[string]bool, len(h))
	for i, v := range h {
		v = strings.TrimSpace(strings.TrimPrefix(v, "\ufeff"))
		if v == "" || seen[v] {
			v = fmt.Sprintf("Column %d", i+1)
		}
		seen[v] = true
		out[i] = v
	}
	return out
}

// rowsToMaps собирает записи под заголовком, пропуская полностью пустые строки.
func rowsToMaps(rows [][]string, headers []string, headerRow int) Table {
	var out Table
	for r := headerIndex(rows, headerRow) + 1; r < len(rows); r++ {
		rec := rows[r]
		m := make(map[string]string, len(headers))
		empty := true
		for c, h := range headers {
			var v string
			if c < len(rec) {
				v = strings.TrimSpace(rec[c])
			}
			if v != "" {
				empty = false
			}
			m[h] = v
		}
		if !empty {
			out = append(out, m)
		}
	}
	return out
}
