package service

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleCSV = `security_id,symbol,name,exchange,lot_size
2885,RELIANCE,RELIANCE INDUSTRIES LTD,NSE,1
11536,TCS,TATA CONSULTANCY SERVICES,NSE,1
13,NIFTY,NIFTY 50,INDEX,1
43492,RELINFRA,RELIANCE INFRASTRUCTURE,NSE,25
`

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "instruments.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	c, err := Load(writeCSV(t, sampleCSV))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.Size() != 4 {
		t.Errorf("Size() = %d, want 4", c.Size())
	}

	in, ok := c.Resolve("RELIANCE")
	if !ok {
		t.Fatal("Resolve(RELIANCE) not found")
	}
	if in.SecurityID != "2885" || in.Exchange != "NSE" {
		t.Errorf("Resolve(RELIANCE) = %+v", in)
	}

	if _, ok := c.Resolve("NOPE"); ok {
		t.Error("Resolve(NOPE) must fail")
	}
}

func TestLoadRejectsEmpty(t *testing.T) {
	if _, err := Load(writeCSV(t, "security_id,symbol,name,exchange,lot_size\n")); err == nil {
		t.Error("expected error for csv without rows")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLotSize(t *testing.T) {
	c, err := Load(writeCSV(t, sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	if got := c.LotSize("RELINFRA"); got != 25 {
		t.Errorf("LotSize(RELINFRA) = %d, want 25", got)
	}
	// неизвестный символ — дефолтный лот
	if got := c.LotSize("NOPE"); got != 1 {
		t.Errorf("LotSize(NOPE) = %d, want 1", got)
	}
}

func TestSearch(t *testing.T) {
	c, err := Load(writeCSV(t, sampleCSV))
	if err != nil {
		t.Fatal(err)
	}

	got := c.Search("RELIANCE", 5)
	if len(got) == 0 {
		t.Fatal("Search(RELIANCE) returned nothing")
	}
	// точное совпадение тикера ранжируется первым
	if got[0].Symbol != "RELIANCE" {
		t.Errorf("Search first hit = %s, want RELIANCE", got[0].Symbol)
	}

	if got := c.Search("reli", 1); len(got) != 1 {
		t.Errorf("Search with limit 1 returned %d hits", len(got))
	}
}
