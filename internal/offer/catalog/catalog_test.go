package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"offer-match/internal/fileio"
	"offer-match/internal/offer/model"
)

func TestDecodeJSON(t *testing.T) {
	arr := `[{"insurer":"Alptis","productName":"Santé Select","levelName":"Niveau 2",
		"benefits":{"HOSPITALISATION":{"honoraires":"150% BR"}}}]`
	recs, err := DecodeJSON(strings.NewReader(arr))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	v, ok := recs[0].Benefit("HOSPITALISATION", "honoraires")
	assert.True(t, ok)
	assert.Equal(t, "150% BR", v)

	recs, err = DecodeJSON(strings.NewReader(`{"contracts":[{"insurer":"April","levelName":"Niveau 1"}]}`))
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	for _, bad := range []string{"", "  ", "{", `{"other":[]}`, `[{"insurer":1}]`} {
		_, err := DecodeJSON(strings.NewReader(bad))
		assert.Error(t, err, bad)
	}
}

func TestFromTable(t *testing.T) {
	recs := FromTable(fileio.Table{
		{"Assureur": "Alptis", "Produit": "Santé Select", "Niveau": "Niveau 2", "HOSPITALISATION.honoraires": "150% BR", "Commentaire": "x"},
		{"insurer": "April", "Product_Name": "Mix", "Level": "3"},
	})
	require.Len(t, recs, 2)
	assert.Equal(t, "Alptis", recs[0].Insurer)
	assert.Equal(t, "Santé Select", recs[0].ProductName)
	assert.Equal(t, "150% BR", recs[0].Benefits["HOSPITALISATION"]["honoraires"])
	assert.Equal(t, "Mix", recs[1].ProductName)
	assert.Equal(t, "3", recs[1].LevelName)
	assert.Nil(t, recs[1].Benefits)
}

func TestSanitize(t *testing.T) {
	valid, dropped := sanitize([]model.ContractRecord{
		{Insurer: " Alptis ", LevelName: "Niveau 1"},
		{Insurer: "", LevelName: "Niveau 1"},
		{Insurer: "  ", ProductName: "Santé Mix"},
		{Insurer: "Cegema", ProductName: "Hospi Zen", LevelName: "  "},
	})
	require.Len(t, valid, 2)
	assert.Equal(t, "Alptis", valid[0].Insurer)
	assert.Equal(t, "Cegema", valid[1].Insurer)
	assert.Empty(t, valid[1].LevelName)
	assert.Equal(t, 2, dropped)
}

func TestStore_KeepsSingleFormulaProducts(t *testing.T) {
	src := &stubSource{recs: []model.ContractRecord{{Insurer: "Cegema", ProductName: "Hospi Zen"}}}
	snap := NewStore(src, time.Second, zerolog.Nop()).Snapshot(context.Background())
	assert.False(t, snap.Degraded)
	assert.Equal(t, "stub", snap.Source)
	require.Len(t, snap.Records, 1)
	assert.Zero(t, snap.Dropped)
}

func TestEmbeddedCatalog(t *testing.T) {
	recs, err := Embedded{}.Load(context.Background())
	require.NoError(t, err)
	valid, dropped := sanitize(recs)
	assert.NotEmpty(t, valid)
	assert.Zero(t, dropped)
}

func TestNewSource(t *testing.T) {
	assert.IsType(t, Embedded{}, NewSource("", nil))
	assert.IsType(t, HTTPSource{}, NewSource("https://example.org/catalog", nil))
	assert.IsType(t, FileSource{}, NewSource("./catalog.xlsx", nil))
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "catalog.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Assureur;Produit;Niveau\nAlptis;Santé Select;Niveau 2\n"), 0o644))
	recs, err := FileSource{Path: csvPath}.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Niveau 2", recs[0].LevelName)

	_, err = FileSource{Path: filepath.Join(dir, "missing.json")}.Load(context.Background())
	assert.Error(t, err)

	pdf := filepath.Join(dir, "catalog.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("x"), 0o644))
	_, err = FileSource{Path: pdf}.Load(context.Background())
	assert.Error(t, err)
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken" {
			http.Error(w, "boom", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[{"insurer":"Alptis","productName":"Santé Select","levelName":"Niveau 2"}]`))
	}))
	defer srv.Close()

	recs, err := HTTPSource{URL: srv.URL + "/catalog", Client: srv.Client()}.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	_, err = HTTPSource{URL: srv.URL + "/broken", Client: srv.Client()}.Load(context.Background())
	assert.Error(t, err)
}

type stubSource struct {
	calls atomic.Int32
	recs  []model.ContractRecord
	err   error
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Load(context.Context) ([]model.ContractRecord, error) {
	s.calls.Add(1)
	return s.recs, s.err
}

func TestStore_LazyAndCached(t *testing.T) {
	src := &stubSource{recs: []model.ContractRecord{{Insurer: "Alptis", LevelName: "Niveau 2"}}}
	st := NewStore(src, time.Second, zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Len(t, st.Records(context.Background()), 1)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), src.calls.Load())

	snap := st.Snapshot(context.Background())
	assert.Equal(t, "stub", snap.Source)
	assert.False(t, snap.Degraded)
}

func TestStore_FallbackOnError(t *testing.T) {
	src := &stubSource{err: errors.New("unreachable")}
	st := NewStore(src, time.Second, zerolog.Nop())

	snap := st.Snapshot(context.Background())
	assert.True(t, snap.Degraded)
	assert.Equal(t, "embedded", snap.Source)
	assert.NotEmpty(t, snap.Records)
	assert.Contains(t, snap.Error, "unreachable")
}

func TestStore_FallbackOnEmptyCatalog(t *testing.T) {
	src := &stubSource{recs: []model.ContractRecord{{Insurer: "", LevelName: "x"}}}
	snap := NewStore(src, 0, zerolog.Nop()).Snapshot(context.Background())
	assert.True(t, snap.Degraded)
	assert.NotEmpty(t, snap.Records)
}

func TestStore_ReloadSwapsSnapshot(t *testing.T) {
	src := &stubSource{recs: []model.ContractRecord{{Insurer: "Alptis", LevelName: "Niveau 2"}}}
	st := NewStore(src, time.Second, zerolog.Nop())
	before := st.Snapshot(context.Background())

	src.recs = []model.ContractRecord{{Insurer: "April", LevelName: "Niveau 1"}, {Insurer: "April", LevelName: "Niveau 2"}}
	after := st.Reload(context.Background())

	assert.Len(t, before.Records, 1)
	assert.Len(t, after.Records, 2)
	assert.Same(t, after, st.Snapshot(context.Background()))
}
