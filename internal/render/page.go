package render

import (
	_ "embed"
	"html/template"
	"io"
	"strings"

	"github.com/spigell/vagas/internal/matching"
	"github.com/spigell/vagas/internal/profile"
)

const (
	DefaultPageTitle  = "Vagas | Inatel"
	HeaderPlaceholder = "header-placeholder"
	FooterPlaceholder = "footer-placeholder"
)

//go:embed templates/page.html.tmpl
var pageSource string

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"date":  FormatDate,
	"areas": firstAreas,
	"join":  strings.Join,
}).Parse(pageSource))

// PageData is everything the listings page needs. Values are escaped by html/template.
type PageData struct {
	Title    string
	Profile  profile.Profile
	Listings []matching.ScoredListing
}

type pageView struct {
	PageData
	Configured bool
	Count      string
	Empty      string
}

// Page writes the listings page with header and footer placeholders left
// for the component loader.
func Page(w io.Writer, data PageData) error {
	if data.Title == "" {
		data.Title = DefaultPageTitle
	}

	return pageTemplate.Execute(w, pageView{
		PageData:   data,
		Configured: profile.DisplayOf(data.Profile) == profile.ListingsAvailable,
		Count:      Count(len(data.Listings)),
		Empty:      EmptyState,
	})
}
