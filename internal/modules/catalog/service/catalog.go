package service

import (
	"encoding/csv"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Instrument — строка скрип-мастера Dhan.
type Instrument struct {
	SecurityID string
	Symbol     string
	Name       string
	Exchange   string
	LotSize    int
}

// Catalog — справочник инструментов с поиском по имени.
type Catalog struct {
	bySymbol map[string]Instrument
	all      []Instrument
}

// Load читает CSV вида security_id,symbol,name,exchange,lot_size.
// Первая строка — заголовок.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open instruments csv")
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "read instruments csv")
	}

	c := &Catalog{bySymbol: make(map[string]Instrument, len(rows))}
	for i, row := range rows {
		if i == 0 || len(row) < 4 {
			continue
		}
		lot := 1
		if len(row) >= 5 {
			if n, err := strconv.Atoi(strings.TrimSpace(row[4])); err == nil && n > 0 {
				lot = n
			}
		}
		in := Instrument{
			SecurityID: strings.TrimSpace(row[0]),
			Symbol:     strings.ToUpper(strings.TrimSpace(row[1])),
			Name:       strings.TrimSpace(row[2]),
			Exchange:   strings.ToUpper(strings.TrimSpace(row[3])),
			LotSize:    lot,
		}
		if in.SecurityID == "" || in.Symbol == "" {
			continue
		}
		c.bySymbol[in.Symbol] = in
		c.all = append(c.all, in)
	}

	if len(c.all) == 0 {
		return nil, errors.Errorf("instruments csv %s is empty", path)
	}

	return c, nil
}

// Resolve — точное совпадение тикера.
func (c *Catalog) Resolve(symbol string) (Instrument, bool) {
	in, ok := c.bySymbol[strings.ToUpper(strings.TrimSpace(symbol))]
	return in, ok
}

func (c *Catalog) LotSize(symbol string) int {
	if in, ok := c.Resolve(symbol); ok {
		return in.LotSize
	}
	return 1
}

func (c *Catalog) Size() int { return len(c.all) }

type scored struct {
	in    Instrument
	score int
}

// Search — нечёткий поиск по тикеру и имени: точное > префикс > вхождение.
func (c *Catalog) Search(query string, limit int) []Instrument {
	q := strings.ToUpper(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var hits []scored
	for _, in := range c.all {
		name := strings.ToUpper(in.Name)
		switch {
		case in.Symbol == q:
			hits = append(hits, scored{in, 0})
		case strings.HasPrefix(in.Symbol, q):
			hits = append(hits, scored{in, 1})
		case strings.Contains(in.Symbol, q) || strings.Contains(name, q):
			hits = append(hits, scored{in, 2})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score < hits[j].score })

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]Instrument, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.in)
	}
	return out
}
