package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/vagas/internal/portal"
	"github.com/spigell/vagas/internal/profile"
	"github.com/spigell/vagas/internal/render"
)

const profileRequiredHint = "Configure seu perfil para ver as vagas compatíveis: vagas profile set (ou vagas run)."

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the listings scored against the stored profile",
	Run: func(cmd *cobra.Command, _ []string) {
		list(cmd)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().String("sort", "", "sort key: match, recent (recentes) or company (empresa)")
	listCmd.Flags().StringSlice("type", nil, "keep only these listing types (repeatable)")
	listCmd.Flags().StringSlice("mode", nil, "keep only these work modes (repeatable)")
	listCmd.Flags().Bool("hide-applied", false, "hide listings you already applied to")
	listCmd.Flags().Int("min-match", 0, "hide listings below this match percentage")
	listCmd.Flags().Bool("table", false, "print a compact table instead of cards")

	viper.BindPFlag("listings.sort", listCmd.Flags().Lookup("sort"))
	viper.BindPFlag("listings.types", listCmd.Flags().Lookup("type"))
	viper.BindPFlag("listings.modes", listCmd.Flags().Lookup("mode"))
	viper.BindPFlag("listings.hide-applied", listCmd.Flags().Lookup("hide-applied"))
	viper.BindPFlag("listings.min-match", listCmd.Flags().Lookup("min-match"))
}

func list(cmd *cobra.Command) {
	ctx := context.Background()

	s := newSession(ctx)
	defer s.Close()

	state, err := loadPortal(ctx, s, portal.LogNotices{Logger: s.logger})
	if err != nil {
		s.logger.Fatal("loading listings", zap.Error(err))
	}

	view := state.View()
	if view.Display == profile.ProfileRequired {
		fmt.Fprintln(os.Stdout, profileRequiredHint)
		return
	}

	if table, _ := cmd.Flags().GetBool("table"); table {
		render.Table(os.Stdout, view.Listings)
		return
	}

	if err := render.Cards(os.Stdout, view.Listings); err != nil {
		s.logger.Fatal("rendering listings", zap.Error(err))
	}
}

// loadPortal loads the page state and applies the configured type and mode
// selections. Without selections every known type and mode stays selected.
func loadPortal(ctx context.Context, s *session, notices portal.Notices) (*portal.State, error) {
	state := s.portal(notices)
	if err := state.Load(ctx); err != nil {
		return nil, err
	}

	types := splitValues(s.config.Listings.Types)
	modes := splitValues(s.config.Listings.Modes)
	if len(types) == 0 && len(modes) == 0 {
		return state, nil
	}

	view := state.View()
	if len(types) == 0 {
		types = view.Types
	}
	if len(modes) == 0 {
		modes = view.Modes
	}

	if err := state.SetFilters(ctx, types, modes); err != nil {
		return nil, err
	}

	return state, nil
}

// splitValues accepts both repeated flags and comma separated env values.
func splitValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
