// Package render projects scored listings into text cards, tables, detail
// dialogs and a static HTML page.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/spigell/vagas/internal/matching"
)

const (
	EmptyState = "Nenhuma vaga encontrada com os filtros selecionados."
	dateLayout = "02/01/2006"
	cardAreas  = 3
)

var funcs = template.FuncMap{
	"date":  FormatDate,
	"areas": firstAreas,
	"join":  strings.Join,
}

var cardTemplate = template.Must(template.New("card").Funcs(funcs).Parse(
	`[{{ .Percentage }}% {{ .Tier }}] #{{ .ID }} {{ .Title }}
  {{ .Company }} | {{ .Type }} | {{ .WorkMode }} | {{ .Location }}
{{- with areas .Areas }}
  Áreas: {{ join . ", " }}
{{- end }}
  {{ .Description }}
  Publicado em {{ date .PublishedAt }} · A partir do {{ .MinimumPeriod }}º período
`))

var detailsTemplate = template.Must(template.New("details").Funcs(funcs).Parse(
	`DETALHES DA VAGA

{{ .Title }}
{{ .Company }}

{{ .Description }}

REQUISITOS:
{{- range .Requirements }}
• {{ . }}
{{- end }}

BENEFÍCIOS:
{{- range .Benefits }}
• {{ . }}
{{- end }}

Match: {{ .Percentage }}%
`))

// Count is the result counter shown above the listing.
func Count(n int) string {
	if n == 1 {
		return "1 vaga encontrada"
	}
	return fmt.Sprintf("%d vagas encontradas", n)
}

// FormatDate formats a publication date the way the portal shows it (dd/mm/yyyy).
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(dateLayout)
}

// Cards writes the counter followed by one card per listing, or the empty state.
func Cards(w io.Writer, items []matching.ScoredListing) error {
	if _, err := fmt.Fprintln(w, Count(len(items))); err != nil {
		return err
	}

	if len(items) == 0 {
		_, err := fmt.Fprintln(w, EmptyState)
		return err
	}

	for _, item := range items {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		if err := cardTemplate.Execute(w, item); err != nil {
			return fmt.Errorf("render card %d: %w", item.ID, err)
		}
	}

	return nil
}

// Table writes a compact one-row-per-listing summary.
func Table(w io.Writer, items []matching.ScoredListing) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Match", "Vaga", "Empresa", "Tipo", "Modalidade", "Publicado"})
	table.SetAutoWrapText(false)

	for _, item := range items {
		table.Append([]string{
			strconv.Itoa(item.ID),
			fmt.Sprintf("%d%% (%s)", item.Percentage, item.Tier),
			item.Title,
			item.Company,
			item.Type,
			item.WorkMode,
			FormatDate(item.PublishedAt),
		})
	}

	table.SetFooter([]string{"", "", "", "", "", "", Count(len(items))})
	table.Render()
}

// Details writes the detail dialog of one listing.
func Details(w io.Writer, item matching.ScoredListing) error {
	return detailsTemplate.Execute(w, item)
}

// ApplicationHeader is the summary shown at the top of the candidature form.
func ApplicationHeader(item matching.ScoredListing) string {
	return fmt.Sprintf("%s\n%s • %s", item.Title, item.Company, item.Type)
}

// Label is the one-line entry used in selection menus.
func Label(item matching.ScoredListing) string {
	return fmt.Sprintf("%d %s / %s / %d%%", item.ID, item.Title, item.Company, item.Percentage)
}

func firstAreas(areas []string) []string {
	if len(areas) > cardAreas {
		return areas[:cardAreas]
	}
	return areas
}
