package catalog

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/rotisserie/eris"

	"offer-match/internal/fileio"
	"offer-match/internal/offer/model"
)

// DecodeJSON принимает массив записей или объект-обёртку {"records"|"contracts"|"data": [...]}.
func DecodeJSON(r io.Reader) ([]model.ContractRecord, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: read payload")
	}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil, eris.New("catalog: empty payload")
	}

	var recs []model.ContractRecord
	if b[0] == '[' {
		if err := json.Unmarshal(b, &recs); err != nil {
			return nil, eris.Wrap(err, "catalog: decode records")
		}
		return recs, nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(b, &wrapped); err != nil {
		return nil, eris.Wrap(err, "catalog: decode payload")
	}
	for _, k := range []string{"records", "contracts", "data"} {
		raw, ok := wrapped[k]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &recs); err != nil {
			return nil, eris.Wrapf(err, "catalog: decode %q", k)
		}
		return recs, nil
	}
	return nil, eris.New("catalog: payload has no records array")
}

// Синонимы заголовков таблицы (после normHeader)
var (
	insurerHeaders = []string{"assureur", "compagnie", "insurer"}
	productHeaders = []string{"produit", "gamme", "product", "productname"}
	levelHeaders   = []string{"niveau", "formule", "level", "levelname"}
)

// FromTable: колонки страховщик/продукт/уровень + гарантии с заголовком "CATEGORIE.cle".
func FromTable(rows fileio.Table) []model.ContractRecord {
	out := make([]model.ContractRecord, 0, len(rows))
	for _, row := range rows {
		rec := model.ContractRecord{Benefits: model.Benefits{}}
		for h, v := range row {
			if cat, key, ok := strings.Cut(h, "."); ok && cat != "" && key != "" {
				cat, key = strings.TrimSpace(cat), strings.TrimSpace(key)
				if rec.Benefits[cat] == nil {
					rec.Benefits[cat] = map[string]string{}
				}
				rec.Benefits[cat][key] = v
				continue
			}
			switch nh := normHeader(h); {
			case containsHeader(insurerHeaders, nh):
				rec.Insurer = v
			case containsHeader(productHeaders, nh):
				rec.ProductName = v
			case containsHeader(levelHeaders, nh):
				rec.LevelName = v
			}
		}
		if len(rec.Benefits) == 0 {
			rec.Benefits = nil
		}
		out = append(out, rec)
	}
	return out
}

func normHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
	return s
}

func containsHeader(list []string, h string) bool {
	for _, v := range list {
		if v == h {
			return true
		}
	}
	return false
}

// sanitize отбрасывает только записи без страховщика. Пустой уровень допустим:
// продукт с единственной формулой сопоставляется с уровнем 0.
func sanitize(recs []model.ContractRecord) (valid []model.ContractRecord, dropped int) {
	valid = make([]model.ContractRecord, 0, len(recs))
	for _, r := range recs {
		r.Insurer = strings.TrimSpace(r.Insurer)
		r.ProductName = strings.TrimSpace(r.ProductName)
		r.LevelName = strings.TrimSpace(r.LevelName)
		if r.Insurer == "" {
			dropped++
			continue
		}
		valid = append(valid, r)
	}
	return valid, dropped
}
