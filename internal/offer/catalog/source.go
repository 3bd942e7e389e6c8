package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"offer-match/internal/fileio"
	"offer-match/internal/offer/model"
)

//go:embed fallback.json
var fallbackJSON []byte

// Source откуда берётся каталог.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]model.ContractRecord, error)
}

// NewSource: "" → встроенный каталог, http(s):// → REST, иначе файл.
func NewSource(ref string, client *http.Client) Source {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return Embedded{}
	case strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://"):
		if client == nil {
			client = http.DefaultClient
		}
		return HTTPSource{URL: ref, Client: client}
	default:
		return FileSource{Path: ref}
	}
}

// Embedded небольшой встроенный каталог; используется и как запасной.
type Embedded struct{}

func (Embedded) Name() string { return "embedded" }

func (Embedded) Load(context.Context) ([]model.ContractRecord, error) {
	return DecodeJSON(bytes.NewReader(fallbackJSON))
}

type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return "file:" + s.Path }

func (s FileSource) Load(ctx context.Context) ([]model.ContractRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "catalog: load cancelled")
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: open %s", s.Path)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(s.Path), ".json") {
		return DecodeJSON(f)
	}
	if !fileio.Supported(s.Path) {
		return nil, eris.Errorf("catalog: unsupported file %s", s.Path)
	}
	rows, err := fileio.ReadAnyMaps(f, s.Path, 1)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: read %s", s.Path)
	}
	return FromTable(rows), nil
}

// HTTPSource GET по адресу, ожидается JSON. Таймаут задаётся контекстом вызывающего.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s HTTPSource) Name() string { return "http:" + s.URL }

func (s HTTPSource) Load(ctx context.Context) ([]model.ContractRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: build request")
	}
	req.Header.Set("Accept", "application/json")
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: fetch %s", s.URL)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("catalog: fetch %s: status %d", s.URL, resp.StatusCode)
	}
	return DecodeJSON(resp.Body)
}
