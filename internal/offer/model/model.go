package model

// Kind тип значения гарантии после разбора строки.
type Kind string

const (
	KindPercentage Kind = "percentage"
	KindCurrency   Kind = "currency"
	KindUnknown    Kind = "unknown"
	KindNotCovered Kind = "not_covered"
)

// GuaranteeValue результат разбора одной строки гарантии ("250 % BR", "80 €/jour", "-").
type GuaranteeValue struct {
	Kind         Kind    `json:"kind"`
	NumericValue float64 `json:"numericValue"`
	RawText      string  `json:"rawText"`
	IsAddition   bool    `json:"isAddition"` // "+100% BR": надбавка, а не полная замена
}

// Benefits: категория (HOSPITALISATION) -> ключ гарантии -> сырая строка.
type Benefits map[string]map[string]string

// ContractRecord одна строка тарифного каталога. Поля хранятся как есть, без нормализации.
type ContractRecord struct {
	Insurer     string   `json:"insurer"`
	ProductName string   `json:"productName"`
	LevelName   string   `json:"levelName"`
	Benefits    Benefits `json:"benefits,omitempty"`
}

// Benefit возвращает сырую строку гарантии или "" и false.
func (c ContractRecord) Benefit(category, key string) (string, bool) {
	if c.Benefits == nil {
		return "", false
	}
	keys, ok := c.Benefits[category]
	if !ok {
		return "", false
	}
	v, ok := keys[key]
	return v, ok
}

type MatchQuery struct {
	Insurer      string `json:"insurer"`
	FormulaLabel string `json:"formulaLabel"`
}

// Strategy имя шага каскада, давшего результат.
type Strategy string

const (
	StrategyNone          Strategy = ""
	StrategyExact         Strategy = "exact"
	StrategyExactLoose    Strategy = "exact_product_loose_level"
	StrategyInclusion     Strategy = "inclusion"
	StrategyKeywords      Strategy = "keyword_overlap"
	StrategyLevelFallback Strategy = "level_preference"
	StrategyFirstRecord   Strategy = "first_record"
)

// Resolution итог сопоставления: Record == nil означает «эквивалент не найден».
type Resolution struct {
	Record   *ContractRecord `json:"record"`
	Strategy Strategy        `json:"strategy"`
}

func (r Resolution) Found() bool { return r.Record != nil }
