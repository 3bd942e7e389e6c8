package model

type Tier string

const (
	TierIdentical   Tier = "identical"
	TierVeryClose   Tier = "very_close"
	TierClose       Tier = "close"
	TierSomewhatFar Tier = "somewhat_far"
	TierFar         Tier = "far"
	TierVeryFar     Tier = "very_far"
	TierNoCoverage  Tier = "no_coverage"
)

var tierColors = map[Tier]string{
	TierIdentical:   "#2e7d32",
	TierVeryClose:   "#66bb6a",
	TierClose:       "#c0ca33",
	TierSomewhatFar: "#fbc02d",
	TierFar:         "#fb8c00",
	TierVeryFar:     "#e53935",
	TierNoCoverage:  "#9e9e9e",
}

// Color цвет плашки для слоя отображения.
func (t Tier) Color() string {
	if c, ok := tierColors[t]; ok {
		return c
	}
	return tierColors[TierNoCoverage]
}

var tierDescriptions = map[Tier]string{
	TierIdentical:   "Identique",
	TierVeryClose:   "Très proche",
	TierClose:       "Proche",
	TierSomewhatFar: "Assez éloigné",
	TierFar:         "Éloigné",
	TierVeryFar:     "Très éloigné",
	TierNoCoverage:  "Non couvert",
}

func (t Tier) Description() string { return tierDescriptions[t] }

// ProximityResult близость значения контракта к потребности клиента.
type ProximityResult struct {
	Tier        Tier   `json:"tier"`
	Score       int    `json:"score"` // 0..100
	Description string `json:"description"`
	MeetsNeed   bool   `json:"meetsNeed"` // контракт >= потребности (информативно)
}

type AggregateResult struct {
	Score int  `json:"score"`
	Tier  Tier `json:"tier"`
	Count int  `json:"count"` // сколько гарантий вошло в среднее
}
