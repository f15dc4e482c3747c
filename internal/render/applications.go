package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/spigell/vagas/internal/application"
)

const submittedLayout = "02/01/2006 15:04"

// Applications writes the stored candidatures, oldest first. title resolves
// a listing id to its title and may return "" for listings no longer published.
func Applications(w io.Writer, apps []application.Application, title func(id int) string) {
	if len(apps) == 0 {
		fmt.Fprintln(w, "Nenhuma candidatura enviada.")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Vaga", "Título", "Nome", "E-mail", "Enviada em"})
	table.SetAutoWrapText(false)

	for _, app := range apps {
		name := title(app.ListingID)
		if name == "" {
			name = "-"
		}
		table.Append([]string{
			strconv.Itoa(app.ListingID),
			name,
			app.ApplicantName,
			app.ApplicantEmail,
			app.SubmittedAt.Local().Format(submittedLayout),
		})
	}

	table.SetFooter([]string{"", "", "", "Total", strconv.Itoa(len(apps))})
	table.Render()
}
