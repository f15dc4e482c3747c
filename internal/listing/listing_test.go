package listing

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"
)

func TestDecodeFixture(t *testing.T) {
	file, err := os.Open("testdata/vagas.json")
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	defer file.Close()

	listings, err := Decode(file)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if listings.Len() != 6 {
		t.Fatalf("expected 6 listings, got %d", listings.Len())
	}

	first := listings.FindByID(1)
	if first == nil {
		t.Fatalf("expected listing 1")
	}
	if first.Company != "Inatel Competence Center" || first.MinimumPeriod != 4 {
		t.Fatalf("unexpected listing: %+v", first)
	}
	if len(first.Areas) != 3 || len(first.Requirements) != 3 || len(first.Benefits) != 3 {
		t.Fatalf("sequences not decoded: %+v", first)
	}
	if !first.PublishedAt.Equal(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date-only timestamp: %v", first.PublishedAt)
	}

	second := listings.FindByID(2)
	if !second.PublishedAt.Equal(time.Date(2024, 3, 18, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected RFC 3339 timestamp: %v", second.PublishedAt)
	}

	if listings.FindByID(99) != nil {
		t.Fatalf("expected nil for unknown id")
	}
}

func TestDecodeWeakTypes(t *testing.T) {
	doc := `[{"id":"7","titulo":"X","periodoMinimo":"3","areas":["A"],"publicadoEm":"2024-01-02T03:04:05"}]`

	listings, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	item := listings.Items[0]
	if item.ID != 7 || item.MinimumPeriod != 3 {
		t.Fatalf("weakly typed fields not decoded: %+v", item)
	}
}

func TestDecodeRejectsBadDocuments(t *testing.T) {
	tests := map[string]string{
		"not an array":  `{"id":1}`,
		"duplicated id": `[{"id":1},{"id":1}]`,
		"bad date":      `[{"id":1,"publicadoEm":"yesterday"}]`,
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(doc)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestTypesAndModes(t *testing.T) {
	listings := &Listings{Items: []*Listing{
		{ID: 1, Type: "Estágio", WorkMode: "Remoto"},
		{ID: 2, Type: "Trainee", WorkMode: "Remoto"},
		{ID: 3, Type: "Estágio", WorkMode: "Presencial"},
	}}

	types := listings.Types()
	if strings.Join(types, ",") != "Estágio,Trainee" {
		t.Fatalf("unexpected types: %v", types)
	}

	modes := listings.Modes()
	if strings.Join(modes, ",") != "Remoto,Presencial" {
		t.Fatalf("unexpected modes: %v", modes)
	}
}

func TestSourceFile(t *testing.T) {
	listings, err := NewSource("testdata/vagas.json", nil).Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if listings.Len() != 6 {
		t.Fatalf("expected 6 listings, got %d", listings.Len())
	}

	if _, err := NewSource("testdata/missing.json", nil).Fetch(context.Background()); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestSourceRemote(t *testing.T) {
	fixture, err := os.ReadFile("testdata/vagas.json")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	var compressed bytes.Buffer
	gz := gzip.NewWriter(&compressed)
	if _, err := gz.Write(fixture); err != nil {
		t.Fatalf("gzip fixture: %v", err)
	}
	gz.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/plain.json":
			w.Write(fixture)
		case "/gzip.json":
			w.Header().Set("Content-Encoding", "gzip")
			w.Write(compressed.Bytes())
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	for _, path := range []string{"/plain.json", "/gzip.json"} {
		listings, err := NewSource(srv.URL+path, nil).Fetch(context.Background())
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", path, err)
		}
		if listings.Len() != 6 {
			t.Fatalf("%s: expected 6 listings, got %d", path, listings.Len())
		}
	}

	if _, err := NewSource(srv.URL+"/missing.json", nil).Fetch(context.Background()); err == nil {
		t.Fatalf("expected error for 404")
	}
}
