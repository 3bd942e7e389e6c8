package service

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Alias: если нормализованное имя страховщика содержит Match, ключом становится Canonical.
type Alias struct {
	Match     string `yaml:"match" json:"match"`
	Canonical string `yaml:"canonical" json:"canonical"`
}

// LevelWord слово, однозначно задающее уровень формулы.
type LevelWord struct {
	Word  string `yaml:"word" json:"word"`
	Level int    `yaml:"level" json:"level"`
}

// Rules неизменяемая конфигурация нормализатора и матчера.
// Передаётся по значению при конструировании; после этого не меняется.
type Rules struct {
	InsurerAliases        []Alias          `yaml:"insurer_aliases" json:"insurerAliases"`
	LevelWords            []LevelWord      `yaml:"level_words" json:"levelWords"`
	FallbackLevels        []int            `yaml:"fallback_levels" json:"fallbackLevels"`
	InsurerFallbackLevels map[string][]int `yaml:"insurer_fallback_levels" json:"insurerFallbackLevels"`
	InsurerTypoThreshold  float64          `yaml:"insurer_typo_threshold" json:"insurerTypoThreshold"` // 0 — опечатки не допускаются
	KeywordMinScore       float64          `yaml:"keyword_min_score" json:"keywordMinScore"`
	KeywordMinLen         int              `yaml:"keyword_min_len" json:"keywordMinLen"`
}

// Порядок важен: более специфичные алиасы раньше общих.
var defaultAliases = []Alias{
	{"aesio", "aesio"},
	{"mutualia", "spvie"},
	{"spvie", "spvie"},
	{"solly azar", "sollyazar"},
	{"sollyazar", "sollyazar"},
	{"malakoff", "malakoff"},
	{"harmonie mutuelle", "harmonie"},
	{"swiss life", "swisslife"},
	{"swisslife", "swisslife"},
	{"la mutuelle generale", "lmg"},
	{"ag2r", "ag2r"},
	{"alptis", "alptis"},
	{"apivia", "apivia"},
	{"april", "april"},
	{"asaf", "asaf"},
	{"cegema", "cegema"},
	{"entoria", "entoria"},
	{"generali", "generali"},
	{"henner", "henner"},
	{"kereis", "kereis"},
	{"mgen", "mgen"},
	{"neoliane", "neoliane"},
	{"zenioo", "zenioo"},
	{"allianz", "allianz"},
	{"axa", "axa"},
}

// Сначала именованная лестница уровней, затем порядковые слова.
var defaultLevelWords = []LevelWord{
	{"tranquillite", 1},
	{"equilibre", 2},
	{"agilite", 3},
	{"serenite", 4},
	{"vitalite", 5},
	{"plenitude", 6},
	{"liberte", 7},
	{"un", 1},
	{"deux", 2},
	{"trois", 3},
	{"quatre", 4},
	{"cinq", 5},
	{"six", 6},
	{"sept", 7},
	{"huit", 8},
	{"neuf", 9},
}

// DefaultRules возвращает свежую копию правил по умолчанию.
func DefaultRules() Rules {
	return Rules{
		InsurerAliases:        append([]Alias(nil), defaultAliases...),
		LevelWords:            append([]LevelWord(nil), defaultLevelWords...),
		FallbackLevels:        []int{4, 3, 5, 2, 1, 6, 7},
		InsurerFallbackLevels: map[string][]int{},
		InsurerTypoThreshold:  0,
		KeywordMinScore:       0.4,
		KeywordMinLen:         3,
	}
}

// LoadRules читает YAML и накладывает заданные поля поверх значений по умолчанию.
// Пустой путь — просто DefaultRules().
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return rules, eris.Wrapf(err, "rules: read %s", path)
	}
	var over struct {
		InsurerAliases        []Alias          `yaml:"insurer_aliases"`
		LevelWords            []LevelWord      `yaml:"level_words"`
		FallbackLevels        []int            `yaml:"fallback_levels"`
		InsurerFallbackLevels map[string][]int `yaml:"insurer_fallback_levels"`
		InsurerTypoThreshold  *float64         `yaml:"insurer_typo_threshold"`
		KeywordMinScore       *float64         `yaml:"keyword_min_score"`
		KeywordMinLen         *int             `yaml:"keyword_min_len"`
	}
	if err := yaml.Unmarshal(b, &over); err != nil {
		return rules, eris.Wrapf(err, "rules: parse %s", path)
	}
	if len(over.InsurerAliases) > 0 {
		rules.InsurerAliases = over.InsurerAliases
	}
	if len(over.LevelWords) > 0 {
		rules.LevelWords = over.LevelWords
	}
	if len(over.FallbackLevels) > 0 {
		rules.FallbackLevels = over.FallbackLevels
	}
	if len(over.InsurerFallbackLevels) > 0 {
		rules.InsurerFallbackLevels = over.InsurerFallbackLevels
	}
	if over.InsurerTypoThreshold != nil {
		rules.InsurerTypoThreshold = *over.InsurerTypoThreshold
	}
	if over.KeywordMinScore != nil {
		rules.KeywordMinScore = *over.KeywordMinScore
	}
	if over.KeywordMinLen != nil {
		rules.KeywordMinLen = *over.KeywordMinLen
	}
	return rules, nil
}

// clone глубокая копия, чтобы вызывающий код не мог поменять правила после конструирования.
func (r Rules) clone() Rules {
	out := r
	out.InsurerAliases = append([]Alias(nil), r.InsurerAliases...)
	out.LevelWords = append([]LevelWord(nil), r.LevelWords...)
	out.FallbackLevels = append([]int(nil), r.FallbackLevels...)
	out.InsurerFallbackLevels = make(map[string][]int, len(r.InsurerFallbackLevels))
	for k, v := range r.InsurerFallbackLevels {
		out.InsurerFallbackLevels[k] = append([]int(nil), v...)
	}
	return out
}
