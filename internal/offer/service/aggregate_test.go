package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"offer-match/internal/offer/model"
)

func scores(vals ...int) []model.ProximityResult {
	out := make([]model.ProximityResult, len(vals))
	for i, v := range vals {
		out[i] = model.ProximityResult{Score: v}
	}
	return out
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name  string
		in    []model.ProximityResult
		score int
		tier  model.Tier
	}{
		{"mixed", scores(100, 0, 50), 50, model.TierSomewhatFar},
		{"all perfect", scores(100, 100), 100, model.TierIdentical},
		{"boundary 95", scores(95), 95, model.TierIdentical},
		{"very close", scores(90, 80), 85, model.TierVeryClose},
		{"close", scores(70), 70, model.TierClose},
		{"far", scores(30, 31), 31, model.TierFar},
		{"very far", scores(29), 29, model.TierVeryFar},
		{"rounding", scores(50, 51), 51, model.TierSomewhatFar},
		{"empty", nil, 0, model.TierNoCoverage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.in)
			assert.Equal(t, tt.score, got.Score)
			assert.Equal(t, tt.tier, got.Tier)
			assert.Equal(t, len(tt.in), got.Count)
		})
	}
}
