package service

import (
	"math"
	"strings"

	"offer-match/internal/offer/model"
)

// Пороговые значения pctDiff (включительно) → уровень близости
var proximityTiers = []struct {
	maxPct float64
	tier   model.Tier
}{
	{5, model.TierIdentical},
	{20, model.TierVeryClose},
	{50, model.TierClose},
	{100, model.TierSomewhatFar},
	{200, model.TierFar},
}

// Score оценивает, насколько значение контракта близко к потребности клиента.
// Несимметрична: расхождение считается относительно потребности.
func Score(need, contractValue string) model.ProximityResult {
	if isEmptyContract(contractValue) {
		return noCoverage()
	}
	if isEmptyNeed(need) {
		return identical()
	}
	nv, cv := Magnitude(need), Magnitude(contractValue)
	if nv == 0 || cv == 0 {
		return noCoverage()
	}
	return proximity(nv, cv)
}

// ScoreValues то же для уже числовых значений. Знак игнорируется, как и при
// разборе строк ("-5" → 5); NaN и бесконечности считаются отсутствием покрытия.
func ScoreValues(need, contractValue float64) model.ProximityResult {
	need, contractValue = math.Abs(need), math.Abs(contractValue)
	if contractValue == 0 || !finite(contractValue) {
		return noCoverage()
	}
	if need == 0 {
		return identical()
	}
	if !finite(need) {
		return noCoverage()
	}
	return proximity(need, contractValue)
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func proximity(need, contract float64) model.ProximityResult {
	pct := math.Abs(contract-need) * 100 / need
	if math.IsNaN(pct) {
		return noCoverage()
	}
	pct = math.Round(pct*1e9) / 1e9

	tier := model.TierVeryFar
	for _, t := range proximityTiers {
		if pct <= t.maxPct {
			tier = t.tier
			break
		}
	}
	return model.ProximityResult{
		Tier:        tier,
		Score:       int(math.Round(math.Max(0, 100-pct))),
		Description: tier.Description(),
		MeetsNeed:   contract >= need,
	}
}

func isEmptyContract(s string) bool {
	if strings.TrimSpace(s) == "0" {
		return true
	}
	return ParseValue(s).Kind == model.KindNotCovered
}

func isEmptyNeed(s string) bool {
	switch strings.TrimSpace(s) {
	case "", "-", "0":
		return true
	}
	return false
}

func noCoverage() model.ProximityResult {
	return model.ProximityResult{
		Tier:        model.TierNoCoverage,
		Score:       0,
		Description: model.TierNoCoverage.Description(),
	}
}

func identical() model.ProximityResult {
	return model.ProximityResult{
		Tier:        model.TierIdentical,
		Score:       100,
		Description: model.TierIdentical.Description(),
		MeetsNeed:   true,
	}
}
