package service

import (
	"strings"

	"github.com/rs/zerolog"

	"offer-match/internal/offer/model"
)

// query разобранный запрос: всё нормализуется один раз на вызов.
type query struct {
	insurer  string
	product  string // подпись без цифр
	level    int    // строгий уровень подписи
	keywords []string
}

// candidate запись каталога страховщика с предвычисленными ключами.
type candidate struct {
	rec         *model.ContractRecord
	product     string   // нормализованный productName
	keys        []string // варианты «продуктовой» части для точного сравнения
	levelStrict int
	levelLoose  int
	keywords    []string
}

// strategy один шаг каскада: nil значит «не нашёл, пробуем следующий».
type strategy struct {
	name model.Strategy
	fn   func(q query, pool []candidate) *candidate
}

type Matcher struct {
	norm      *Normalizer
	rules     Rules
	fallbacks map[string][]int
	log       zerolog.Logger
	cascade   []strategy
}

func NewMatcher(rules Rules, logger zerolog.Logger) *Matcher {
	rules = rules.clone()
	m := &Matcher{
		norm:      NewNormalizer(rules),
		rules:     rules,
		fallbacks: make(map[string][]int, len(rules.InsurerFallbackLevels)),
		log:       logger.With().Str("component", "matcher").Logger(),
	}
	for k, v := range rules.InsurerFallbackLevels {
		m.fallbacks[m.norm.Normalize(k, true)] = v
	}
	m.cascade = []strategy{
		{model.StrategyExact, m.exact},
		{model.StrategyExactLoose, m.exactLooseLevel},
		{model.StrategyInclusion, m.inclusion},
		{model.StrategyKeywords, m.keywordOverlap},
		{model.StrategyLevelFallback, m.levelPreference},
		{model.StrategyFirstRecord, firstRecord},
	}
	return m
}

// Match возвращает nil, если эквивалент не найден (нормальный исход, не ошибка).
func (m *Matcher) Match(insurer, formulaLabel string, catalog []model.ContractRecord) *model.ContractRecord {
	return m.Resolve(model.MatchQuery{Insurer: insurer, FormulaLabel: formulaLabel}, catalog).Record
}

// Resolve прогоняет каскад стратегий по порядку и возвращает первую найденную запись.
func (m *Matcher) Resolve(mq model.MatchQuery, catalog []model.ContractRecord) model.Resolution {
	q := m.parseQuery(mq)
	log := m.log.With().Str("insurer", mq.Insurer).Str("label", mq.FormulaLabel).Logger()

	pool := m.insurerPool(q, catalog)
	log.Debug().Str("step", "insurer_filter").Str("insurer_key", q.insurer).Int("candidates", len(pool)).Msg("cascade")
	if len(pool) == 0 {
		log.Info().Msg("no records for insurer")
		return model.Resolution{}
	}

	for _, s := range m.cascade {
		c := s.fn(q, pool)
		log.Debug().Str("step", string(s.name)).Bool("hit", c != nil).Msg("cascade")
		if c != nil {
			log.Info().
				Str("strategy", string(s.name)).
				Str("product", c.rec.ProductName).
				Str("level", c.rec.LevelName).
				Msg("matched")
			return model.Resolution{Record: c.rec, Strategy: s.name}
		}
	}
	return model.Resolution{}
}

func (m *Matcher) parseQuery(mq model.MatchQuery) query {
	product := m.norm.ProductPortion(mq.FormulaLabel)
	return query{
		insurer:  m.norm.Normalize(mq.Insurer, true),
		product:  product,
		level:    m.norm.ExtractLevel(mq.FormulaLabel, false),
		keywords: keywords(product, m.rules.KeywordMinLen),
	}
}

// insurerPool: совпадение или вхождение в обе стороны; если пусто — опечатки по схожести.
func (m *Matcher) insurerPool(q query, catalog []model.ContractRecord) []candidate {
	if q.insurer == "" {
		return nil
	}
	var pool, typos []candidate
	for i := range catalog {
		ni := m.norm.Normalize(catalog[i].Insurer, true)
		if ni == "" {
			continue
		}
		switch {
		case ni == q.insurer || strings.Contains(ni, q.insurer) || strings.Contains(q.insurer, ni):
			pool = append(pool, m.newCandidate(&catalog[i]))
		case len(pool) == 0 && m.rules.InsurerTypoThreshold > 0 &&
			bestSimilarity(ni, q.insurer) >= m.rules.InsurerTypoThreshold:
			typos = append(typos, m.newCandidate(&catalog[i]))
		}
	}
	if len(pool) > 0 {
		return pool
	}
	return typos
}

func (m *Matcher) newCandidate(rec *model.ContractRecord) candidate {
	product := m.norm.Normalize(rec.ProductName, false)
	levelPart := m.norm.ProductPortion(rec.LevelName)
	productPart := m.norm.ProductPortion(rec.ProductName)

	keys := make([]string, 0, 3)
	for _, k := range []string{product, productPart, levelPart, collapseSpaces(productPart + " " + levelPart)} {
		if k != "" && !containsString(keys, k) {
			keys = append(keys, k)
		}
	}
	return candidate{
		rec:         rec,
		product:     product,
		keys:        keys,
		levelStrict: m.norm.ExtractLevel(rec.LevelName, false),
		levelLoose:  m.norm.ExtractLevel(rec.LevelName, true),
		keywords:    keywords(productPart, m.rules.KeywordMinLen),
	}
}

// 1. Точный продукт + строгий уровень с обеих сторон
func (m *Matcher) exact(q query, pool []candidate) *candidate {
	if q.product == "" {
		return nil
	}
	for i := range pool {
		if containsString(pool[i].keys, q.product) && pool[i].levelStrict == q.level {
			return &pool[i]
		}
	}
	return nil
}

// 2. Точный продукт, уровень каталога извлекается с acceptAnyDigit
func (m *Matcher) exactLooseLevel(q query, pool []candidate) *candidate {
	if q.product == "" {
		return nil
	}
	for i := range pool {
		if containsString(pool[i].keys, q.product) && pool[i].levelLoose == q.level {
			return &pool[i]
		}
	}
	return nil
}

// 3. Вхождение названия продукта в любую сторону, затем строгий уровень
func (m *Matcher) inclusion(q query, pool []candidate) *candidate {
	if q.product == "" {
		return nil
	}
	for i := range pool {
		p := pool[i].product
		if p == "" {
			continue
		}
		if (strings.Contains(q.product, p) || strings.Contains(p, q.product)) && pool[i].levelStrict == q.level {
			return &pool[i]
		}
	}
	return nil
}

// 4. Пересечение ключевых слов (только если уровень запроса известен)
func (m *Matcher) keywordOverlap(q query, pool []candidate) *candidate {
	if q.level == 0 || len(q.keywords) == 0 {
		return nil
	}
	best := 0.0
	var top []int
	for i := range pool {
		s := keywordOverlap(q.keywords, pool[i].keywords)
		if s <= m.rules.KeywordMinScore {
			continue
		}
		switch {
		case s > best:
			best = s
			top = append(top[:0], i)
		case s == best:
			top = append(top, i)
		}
	}
	if len(top) == 0 {
		return nil
	}
	for _, i := range top {
		if pool[i].levelStrict == q.level {
			return &pool[i]
		}
	}
	return &pool[top[0]]
}

// 5. Предпочтительный порядок уровней без учёта названия продукта
func (m *Matcher) levelPreference(q query, pool []candidate) *candidate {
	order := m.rules.FallbackLevels
	if o, ok := m.fallbacks[q.insurer]; ok && len(o) > 0 {
		order = o
	}
	for _, lvl := range order {
		for i := range pool {
			if pool[i].levelLoose == lvl {
				return &pool[i]
			}
		}
	}
	return nil
}

// 6. Первая запись страховщика в порядке каталога
func firstRecord(_ query, pool []candidate) *candidate {
	if len(pool) == 0 {
		return nil
	}
	return &pool[0]
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
