package fileio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// readCSV читает CSV, определяя кодировку (UTF-8, Windows-1252, ISO-8859-1) и
// разделитель (Excel во французской локали пишет ';').
func readCSV(r io.Reader, headerRow int) (Table, error) {
	br := bufio.NewReader(r)

	peek, _ := br.Peek(4096)
	cs := "utf-8"
	if len(peek) > 0 {
		if det, err := chardet.NewTextDetector().DetectBest(peek); err == nil && det != nil {
			cs = strings.ToLower(det.Charset)
		}
	}

	var dec io.Reader = br
	switch {
	case validUTF8Prefix(peek):
		// детектор на коротких файлах ошибается; валидный UTF-8 не перекодируем
	case cs == "windows-1252":
		dec = transform.NewReader(br, charmap.Windows1252.NewDecoder())
	case cs == "iso-8859-1" || cs == "iso-8859-15":
		dec = transform.NewReader(br, charmap.ISO8859_15.NewDecoder())
	default:
		dec = transform.NewReader(br, charmap.Windows1252.NewDecoder())
	}

	cr := csv.NewReader(dec)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.Comma = sniffComma(peek)

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rowsToMaps(rows, pickHeader(rows, headerRow), headerRow), nil
}

// Peek может обрезать последний многобайтовый символ
func validUTF8Prefix(p []byte) bool {
	for i := 0; i < utf8.UTFMax && len(p) > 0; i++ {
		if utf8.Valid(p) {
			return true
		}
		p = p[:len(p)-1]
	}
	return utf8.Valid(p)
}

// sniffComma: по первой строке выбираем самый частый из ; , \t
func sniffComma(peek []byte) rune {
	line := peek
	if i := bytes.IndexByte(peek, '\n'); i >= 0 {
		line = peek[:i]
	}
	best, bestN := ',', 0
	for _, c := range []rune{';', ',', '\t'} {
		if n := bytes.Count(line, []byte(string(c))); n > bestN {
			best, bestN = c, n
		}
	}
	return best
}
