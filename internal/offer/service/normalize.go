package service

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalizer приводит имена страховщиков и подписи формул к сравнимому виду.
// Безопасен для конкурентного использования: после NewNormalizer ничего не пишет.
type Normalizer struct {
	aliases    []Alias
	levelWords []LevelWord
}

func NewNormalizer(rules Rules) *Normalizer {
	n := &Normalizer{}
	// ключи таблиц проходят ту же очистку, что и входной текст (в YAML можно писать с акцентами)
	for _, a := range rules.InsurerAliases {
		m := foldText(a.Match)
		if m == "" || a.Canonical == "" {
			continue
		}
		n.aliases = append(n.aliases, Alias{Match: m, Canonical: a.Canonical})
	}
	for _, w := range rules.LevelWords {
		word := foldText(w.Word)
		if word == "" || w.Level <= 0 {
			continue
		}
		n.levelWords = append(n.levelWords, LevelWord{Word: word, Level: w.Level})
	}
	return n
}

// Разметка переноса строки из HTML-каталогов и разделители, которые считаем пробелом
var reLineBreak = regexp.MustCompile(`(?i)<br\s*/?>|\r\n|\r|\n`)
var sepReplacer = strings.NewReplacer("/", " ", "*", " ", "'", " ", "’", " ", "`", " ", "œ", "oe", "æ", "ae")

// NFD + удаление combining marks: "AÉSIO" → "aesio"
func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// foldText общий конвейер очистки: регистр, акценты, разделители, пробелы.
func foldText(s string) string {
	if s == "" {
		return ""
	}
	out := strings.ToLower(s)
	out = stripAccents(out)
	out = reLineBreak.ReplaceAllString(out, " ")
	out = sepReplacer.Replace(out)
	return collapseSpaces(out)
}

// Normalize: для страховщика дополнительно применяется таблица алиасов (первое совпадение).
// Для подписей продукта/уровня стоп-слова НЕ вырезаются: "sante", "pro", "niveau" остаются.
func (n *Normalizer) Normalize(text string, isInsurerName bool) string {
	out := foldText(text)
	if !isInsurerName || out == "" {
		return out
	}
	for _, a := range n.aliases {
		if strings.Contains(out, a.Match) {
			return a.Canonical
		}
	}
	return out
}

var reDigits = regexp.MustCompile(`\d+`)

// ExtractLevel: 0 значит «уровень не определён».
// acceptAnyDigit включает поиск одиночной цифры в исходном (ненормализованном) тексте.
func (n *Normalizer) ExtractLevel(text string, acceptAnyDigit bool) int {
	normed := foldText(text)
	if lvl := n.levelFromWords(normed); lvl > 0 {
		return lvl
	}
	if m := reDigits.FindString(normed); m != "" {
		if v, err := strconv.Atoi(m); err == nil {
			return v
		}
	}
	if acceptAnyDigit {
		return anyDigit(text)
	}
	return 0
}

// Короткие слова ("un", "six") только целым токеном, длинные — и подстрокой ("troisieme").
func (n *Normalizer) levelFromWords(normed string) int {
	if normed == "" {
		return 0
	}
	tokens := wordTokens(normed)
	for _, w := range n.levelWords {
		if len([]rune(w.Word)) >= 5 && strings.Contains(normed, w.Word) {
			return w.Level
		}
		for _, t := range tokens {
			if t == w.Word {
				return w.Level
			}
		}
	}
	return 0
}

// anyDigit ищет любой числовой символ, включая "²" и полноширинные цифры.
func anyDigit(raw string) int {
	for _, r := range raw {
		if !unicode.IsNumber(r) {
			continue
		}
		d := norm.NFKC.String(string(r))
		if len(d) == 1 && d[0] >= '0' && d[0] <= '9' {
			return int(d[0] - '0')
		}
	}
	return 0
}

// ProductPortion подпись без цифр (включая "²") и токенов без букв: "Niveau 2+" → "niveau".
func (n *Normalizer) ProductPortion(label string) string {
	normed := strings.Map(func(r rune) rune {
		if unicode.IsNumber(r) {
			return ' '
		}
		return r
	}, foldText(label))
	keep := make([]string, 0, 4)
	for _, f := range strings.Fields(normed) {
		if strings.IndexFunc(f, unicode.IsLetter) >= 0 {
			keep = append(keep, f)
		}
	}
	return strings.Join(keep, " ")
}

func wordTokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// keywords слова длиннее minLen-1 символов.
func keywords(s string, minLen int) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, t := range wordTokens(s) {
		if len([]rune(t)) < minLen {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
