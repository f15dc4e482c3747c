package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/vagas/internal/ai"
	"github.com/spigell/vagas/internal/application"
	"github.com/spigell/vagas/internal/render"
)

var applyCmd = &cobra.Command{
	Use:   "apply <listing-id>",
	Short: "Send a candidature for one listing",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		apply(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().String("name", "", "your full name (required)")
	applyCmd.Flags().String("email", "", "your e-mail (required)")
	applyCmd.Flags().String("phone", "", "your phone")
	applyCmd.Flags().String("link", "", "your LinkedIn profile")
	applyCmd.Flags().StringP("message", "m", "", "cover message (required unless ai.enabled drafts one)")
}

func apply(cmd *cobra.Command, arg string) {
	ctx := context.Background()

	s := newSession(ctx)
	defer s.Close()

	id, err := parseListingID(arg)
	if err != nil {
		s.logger.Fatal("parsing arguments", zap.Error(err))
	}

	state := s.portal(consoleNotices())
	if err := state.Load(ctx); err != nil {
		s.logger.Fatal("loading the portal", zap.Error(err))
	}

	item, ok := state.Find(id)
	if !ok {
		s.logger.Fatal("there is no such listing", zap.Int("listing_id", id))
	}

	flags := cmd.Flags()
	name, _ := flags.GetString("name")
	email, _ := flags.GetString("email")
	phone, _ := flags.GetString("phone")
	link, _ := flags.GetString("link")
	message, _ := flags.GetString("message")

	if message == "" {
		if drafter := s.drafter(ctx); drafter != nil {
			message, err = drafter.Draft(ctx, ai.DraftRequest{
				Profile:       state.Profile(),
				Listing:       item.Listing,
				ApplicantName: name,
			})
			if err != nil {
				s.logger.Warn("could not draft a message", zap.Error(err))
			}
		}
	}

	fmt.Println(render.ApplicationHeader(item))

	saved, err := state.Apply(ctx, application.Application{
		ListingID:      id,
		ApplicantName:  name,
		ApplicantEmail: email,
		ApplicantPhone: phone,
		ProfileLink:    link,
		Message:        message,
	})
	if err != nil {
		s.logger.Fatal("application was not sent", zap.Error(err))
	}

	s.logger.Debug("application stored", zap.String("application_id", saved.ID))
}
