package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"offer-match/internal/offer/model"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--catalog", "", "--rules", ""}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestScoreCmd(t *testing.T) {
	out, err := run(t, "score", "100%", "300%")
	require.NoError(t, err)
	var res model.ProximityResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, model.TierFar, res.Tier)
}

func TestParseCmd(t *testing.T) {
	out, err := run(t, "parse", "80 €/jour", "-")
	require.NoError(t, err)
	var vals []model.GuaranteeValue
	require.NoError(t, json.Unmarshal([]byte(out), &vals))
	require.Len(t, vals, 2)
	assert.Equal(t, model.KindCurrency, vals[0].Kind)
	assert.Equal(t, model.KindNotCovered, vals[1].Kind)
}

func TestMatchCmd(t *testing.T) {
	out, err := run(t, "match", "--insurer", "Alptis", "--label", "Niveau 2")
	require.NoError(t, err)
	var res model.Resolution
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.NotNil(t, res.Record)
	assert.Equal(t, "Niveau 2", res.Record.LevelName)

	_, err = run(t, "match")
	assert.Error(t, err)
}

func TestRankCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rank.yaml")
	body := `
needs:
  hospitalisation: "200%"
offers:
  - insurer: Alptis
    formula: Niveau 1
  - insurer: Alptis
    formula: Niveau 3
    price: 50
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	out, err := run(t, "rank", path)
	require.NoError(t, err)
	var ranked []model.RankedOffer
	require.NoError(t, json.Unmarshal([]byte(out), &ranked))
	require.Len(t, ranked, 2)
	assert.Equal(t, "Niveau 3", ranked[0].Offer.Formula)

	_, err = run(t, "rank", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
