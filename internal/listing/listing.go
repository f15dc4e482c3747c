// Package listing models the job listings ("vagas") and fetches them from
// their static JSON source.
package listing

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"time"
)

// Listing is immutable once fetched.
type Listing struct {
	ID            int       `json:"id"`
	Title         string    `json:"titulo"`
	Company       string    `json:"empresa"`
	Description   string    `json:"descricao"`
	Type          string    `json:"tipo"`
	WorkMode      string    `json:"modalidade"`
	Location      string    `json:"localizacao"`
	Courses       []string  `json:"cursos"`
	MinimumPeriod int       `json:"periodoMinimo"`
	Areas         []string  `json:"areas"`
	Requirements  []string  `json:"requisitos"`
	Benefits      []string  `json:"beneficios"`
	PublishedAt   time.Time `json:"publicadoEm"`
}

type Listings struct {
	Items []*Listing
}

func (l *Listings) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Items)
}

func (l *Listings) FindByID(id int) *Listing {
	for _, item := range l.Items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

// Types returns the distinct listing types in first-seen order.
func (l *Listings) Types() []string {
	return l.distinct(func(item *Listing) string { return item.Type })
}

// Modes returns the distinct work modes in first-seen order.
func (l *Listings) Modes() []string {
	return l.distinct(func(item *Listing) string { return item.WorkMode })
}

// Areas returns the distinct areas of every listing in first-seen order.
func (l *Listings) Areas() []string {
	out := make([]string, 0)
	for _, item := range l.Items {
		for _, area := range item.Areas {
			if area != "" && !slices.Contains(out, area) {
				out = append(out, area)
			}
		}
	}
	return out
}

func (l *Listings) distinct(field func(*Listing) string) []string {
	out := make([]string, 0)
	for _, item := range l.Items {
		v := field(item)
		if v == "" || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// ReportByCompany groups listing titles by company.
func (l *Listings) ReportByCompany() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, item := range l.Items {
		report[item.Company] = append(report[item.Company], map[string]string{
			"id":         fmt.Sprintf("%d", item.ID),
			"title":      item.Title,
			"type":       item.Type,
			"work_mode":  item.WorkMode,
			"location":   item.Location,
			"min_period": fmt.Sprintf("%d", item.MinimumPeriod),
		})
	}
	return report
}

// DumpToTmpFile writes v as indented JSON to a new temp file and returns its name.
func DumpToTmpFile(v any) (string, error) {
	file, err := os.CreateTemp("", "vagas_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return file.Name(), nil
}
