package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/vagas/internal/render"
)

var applicationsCmd = &cobra.Command{
	Use:     "applications",
	Aliases: []string{"candidaturas"},
	Short:   "List the candidatures sent so far",
	Run: func(_ *cobra.Command, _ []string) {
		listApplications()
	},
}

func init() {
	rootCmd.AddCommand(applicationsCmd)
}

func listApplications() {
	ctx := context.Background()

	s := newSession(ctx)
	defer s.Close()

	apps, err := s.applications.List(ctx)
	if err != nil {
		s.logger.Fatal("loading applications", zap.Error(err))
	}

	// Titles are a nicety: a failed fetch only leaves them blank.
	titles := map[int]string{}
	if listings, err := s.source.Fetch(ctx); err != nil {
		s.logger.Warn("listing titles unavailable", zap.Error(err))
	} else {
		for _, item := range listings.Items {
			titles[item.ID] = item.Title
		}
	}

	render.Applications(os.Stdout, apps, func(id int) string { return titles[id] })
}
