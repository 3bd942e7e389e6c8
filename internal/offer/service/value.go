package service

import (
	"regexp"
	"strings"

	"offer-match/internal/offer/model"
	"offer-match/internal/utils"
)

// Фразы «не покрывается» (сравниваются после foldText)
var notCoveredPhrases = []string{
	"non couvert",
	"non garanti",
	"non pris en charge",
	"pas de prise en charge",
	"non rembourse",
	"pas de remboursement",
	"non inclus",
	"neant",
}

const num = `(\d+(?:[.,]\d+)?)`

// тысячи через пробел/NBSP: "1 500 €"
const numGrouped = `(\d{1,3}(?:[ \x{00A0}\x{202F}]\d{3})+(?:[.,]\d+)?)`

const sp = `[\s\x{00A0}\x{202F}]*`

// Порядок внутри списка важен: первое совпадение выигрывает.
var percentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\+?` + sp + num + sp + `%`),
	regexp.MustCompile(`(?i)` + num + sp + `%` + sp + `(?:du\s+)?(?:brss|br|pmss|tm|frais reels)`),
	regexp.MustCompile(num + sp + `%`),
	regexp.MustCompile(`(?i)` + num + sp + `pour` + sp + `cent`),
}

var currencyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)` + numGrouped + sp + `(?:€|eur(?:os?)?\b)`),
	regexp.MustCompile(`(?i)` + num + sp + `(?:€|eur(?:os?)?\b)`),
	regexp.MustCompile(`(?i)(?:€|\beur\b)` + sp + num),
}

var reAnyNumber = regexp.MustCompile(num)

// ParseValue разбирает сырую строку гарантии. Ошибок не бывает: любая строка даёт значение.
func ParseValue(raw string) model.GuaranteeValue {
	trimmed := strings.TrimSpace(raw)
	v := model.GuaranteeValue{
		Kind:       model.KindUnknown,
		RawText:    raw,
		IsAddition: strings.HasPrefix(trimmed, "+"),
	}

	if isNotCovered(trimmed) {
		v.Kind = model.KindNotCovered
		return v
	}
	if f, ok := firstMatch(percentPatterns, trimmed); ok {
		v.Kind, v.NumericValue = model.KindPercentage, f
		return v
	}
	if f, ok := firstMatch(currencyPatterns, trimmed); ok {
		v.Kind, v.NumericValue = model.KindCurrency, f
		return v
	}
	if m := reAnyNumber.FindString(trimmed); m != "" {
		if f, ok := utils.ParseFloatFR(m); ok {
			v.NumericValue = f
		}
	}
	return v
}

// Magnitude только числовая часть, без типа (для оценки близости).
func Magnitude(raw string) float64 {
	return ParseValue(raw).NumericValue
}

func isNotCovered(trimmed string) bool {
	switch trimmed {
	case "", "-", "–", "—", "--":
		return true
	}
	folded := foldText(trimmed)
	for _, p := range notCoveredPhrases {
		if strings.Contains(folded, p) {
			return true
		}
	}
	return false
}

func firstMatch(patterns []*regexp.Regexp, s string) (float64, bool) {
	for _, re := range patterns {
		m := re.FindStringSubmatch(s)
		if len(m) < 2 {
			continue
		}
		if f, ok := utils.ParseFloatFR(m[1]); ok {
			return f, true
		}
	}
	return 0, false
}
