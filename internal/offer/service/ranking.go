package service

import (
	"math"
	"sort"
	"strings"

	"offer-match/internal/offer/model"
)

// Needs: ID гарантии (model.TrackedGuarantees) → значение, указанное клиентом ("150%", "60€").
type Needs map[string]string

// RankOffers сопоставляет каждое предложение с каталогом, оценивает отслеживаемые
// гарантии и сортирует: балл по убыванию, затем цена по возрастанию, затем исходный порядок.
func (m *Matcher) RankOffers(needs Needs, offers []model.Offer, catalog []model.ContractRecord) []model.RankedOffer {
	out := make([]model.RankedOffer, 0, len(offers))
	for _, o := range offers {
		res := m.Resolve(model.MatchQuery{Insurer: o.Insurer, FormulaLabel: o.Formula}, catalog)
		ro := model.RankedOffer{Offer: o, Record: res.Record, Strategy: res.Strategy}
		if res.Record != nil {
			ro.Guarantees = scoreGuarantees(needs, *res.Record)
		}
		results := make([]model.ProximityResult, 0, len(ro.Guarantees))
		for _, g := range ro.Guarantees {
			results = append(results, g.Result)
		}
		ro.Aggregate = Aggregate(results)
		ro.Color = ro.Aggregate.Tier.Color()
		out = append(out, ro)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Aggregate.Score != out[j].Aggregate.Score {
			return out[i].Aggregate.Score > out[j].Aggregate.Score
		}
		return priceKey(out[i].Offer.Price) < priceKey(out[j].Offer.Price)
	})
	return out
}

// неизвестная цена уходит в конец своей группы
func priceKey(p float64) float64 {
	if p <= 0 {
		return math.MaxFloat64
	}
	return p
}

// scoreGuarantees: гарантия, отсутствующая у клиента или в контракте, пропускается.
func scoreGuarantees(needs Needs, rec model.ContractRecord) []model.GuaranteeScore {
	var out []model.GuaranteeScore
	for _, g := range model.TrackedGuarantees {
		need, ok := needs[g.ID]
		if !ok || strings.TrimSpace(need) == "" {
			continue
		}
		contract, ok := lookupBenefit(rec, g)
		if !ok {
			continue
		}
		out = append(out, model.GuaranteeScore{
			Guarantee: g.ID,
			Need:      need,
			Contract:  contract,
			Result:    Score(need, contract),
		})
	}
	return out
}

// lookupBenefit: сначала точный ключ, затем сравнение после foldText
// ("Chambre particulière" == "chambre_particuliere").
func lookupBenefit(rec model.ContractRecord, g model.Guarantee) (string, bool) {
	if v, ok := rec.Benefit(g.Category, g.Key); ok {
		return v, true
	}
	wantCat, wantKey := benefitKey(g.Category), benefitKey(g.Key)
	for cat, keys := range rec.Benefits {
		if benefitKey(cat) != wantCat {
			continue
		}
		for k, v := range keys {
			if benefitKey(k) == wantKey {
				return v, true
			}
		}
	}
	return "", false
}

func benefitKey(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(foldText(s), "_", " "), " ", "")
}
