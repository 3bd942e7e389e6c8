package utils

import (
	"regexp"
	"strconv"
	"strings"
)

var rxKeepNums = regexp.MustCompile(`[^\d.]`)

// ParseFloatFR парсит "1 234,50", "80", "2 500" (NBSP/NNBSP) и т.п. Знак игнорируется:
// в гарантиях "+30€" и "-" не означают отрицательных сумм.
func ParseFloatFR(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	repl := strings.NewReplacer("\u00A0", "", "\u202F", "", " ", "", "\t", "", ",", ".")
	s = repl.Replace(s)
	s = rxKeepNums.ReplaceAllString(s, "")
	if s == "" || s == "." {
		return 0, false
	}
	// "1.234.5" после замены запятой: оставляем только последнюю точку как десятичную
	if strings.Count(s, ".") > 1 {
		i := strings.LastIndex(s, ".")
		s = strings.ReplaceAll(s[:i], ".", "") + s[i:]
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}
