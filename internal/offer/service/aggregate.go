package service

import (
	"math"

	"offer-match/internal/offer/model"
)

// Пороговые значения агрегированного балла (включительно снизу)
var aggregateTiers = []struct {
	minScore int
	tier     model.Tier
}{
	{95, model.TierIdentical},
	{80, model.TierVeryClose},
	{70, model.TierClose},
	{50, model.TierSomewhatFar},
	{30, model.TierFar},
}

// Aggregate среднее по уже посчитанным гарантиям. Отсутствующие гарантии
// в results не передаются и в среднее не входят. Пустой вход → NoCoverage.
func Aggregate(results []model.ProximityResult) model.AggregateResult {
	if len(results) == 0 {
		return model.AggregateResult{Score: 0, Tier: model.TierNoCoverage}
	}
	sum := 0
	for _, r := range results {
		sum += r.Score
	}
	score := int(math.Round(float64(sum) / float64(len(results))))
	return model.AggregateResult{Score: score, Tier: aggregateTier(score), Count: len(results)}
}

func aggregateTier(score int) model.Tier {
	for _, t := range aggregateTiers {
		if score >= t.minScore {
			return t.tier
		}
	}
	return model.TierVeryFar
}
