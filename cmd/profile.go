package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/vagas/internal/matching"
	"github.com/spigell/vagas/internal/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or change the stored student profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored profile and its setup state",
	Run: func(_ *cobra.Command, _ []string) {
		showProfile()
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Save the profile; without flags the setup form is shown",
	Long: `Save the profile. Flags override the stored values and the result is
validated as a whole. Without flags the interactive setup form opens,
prefilled from the stored profile.`,
	Run: func(cmd *cobra.Command, _ []string) {
		setProfile(cmd)
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileShowCmd, profileSetCmd)

	profileSetCmd.Flags().String("course", "", "course name, e.g. \"Engenharia de Software\" or \"Software Engineering\"")
	profileSetCmd.Flags().Int("period", 0, "current period (1-10)")
	profileSetCmd.Flags().StringSlice("area", nil, "interest area (repeatable, at least 2)")
	profileSetCmd.Flags().StringSlice("type", nil, "desired listing type (repeatable)")
	profileSetCmd.Flags().StringSlice("mode", nil, "desired work mode (repeatable)")
}

func showProfile() {
	ctx := context.Background()

	s := newSession(ctx)
	defer s.Close()

	p, err := s.profiles.Load(ctx)
	if err != nil {
		s.logger.Fatal("loading the profile", zap.Error(err))
	}

	if p.IsZero() {
		fmt.Println("Não configurado")
		fmt.Println(profileRequiredHint)
		return
	}

	status := "Não configurado"
	if profile.DisplayOf(p) == profile.ListingsAvailable {
		status = "Configurado"
	}

	fmt.Printf("%s (%s)\n", status, profile.StateOf(p))
	fmt.Printf("Curso:        %s\n", p.Course)
	fmt.Printf("Período:      %dº\n", p.Period)
	fmt.Printf("Áreas:        %s\n", strings.Join(p.InterestAreas, ", "))
	fmt.Printf("Tipos:        %s\n", strings.Join(p.JobTypes, ", "))
	fmt.Printf("Modalidades:  %s\n", strings.Join(p.WorkModes, ", "))
}

func setProfile(cmd *cobra.Command) {
	ctx := context.Background()

	s := newSession(ctx)
	defer s.Close()

	state := s.portal(consoleNotices())
	if err := state.Load(ctx); err != nil {
		s.logger.Fatal("loading the portal", zap.Error(err))
	}

	current := state.Profile()

	var next profile.Profile
	if !profileFlagsChanged(cmd) {
		p, err := promptSetup(current, state.Catalog())
		if err != nil {
			if interrupted(err) {
				return
			}
			s.logger.Fatal("profile setup", zap.Error(err))
		}
		next = p
	} else {
		next = mergeProfileFlags(cmd, current)
	}

	if err := state.SubmitSetup(ctx, next); err != nil {
		if isValidation(err) {
			s.logger.Fatal("profile was not saved", zap.Error(err))
		}
		s.logger.Fatal("saving the profile", zap.Error(err))
	}
}

var profileFlags = []string{"course", "period", "area", "type", "mode"}

func profileFlagsChanged(cmd *cobra.Command) bool {
	for _, name := range profileFlags {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// mergeProfileFlags overlays the flags that were set onto current.
func mergeProfileFlags(cmd *cobra.Command, current profile.Profile) profile.Profile {
	flags := cmd.Flags()
	next := current

	if flags.Changed("course") {
		course, _ := flags.GetString("course")
		next.Course = matching.CanonicalCourse(course)
	}
	if flags.Changed("period") {
		next.Period, _ = flags.GetInt("period")
	}
	if flags.Changed("area") {
		areas, _ := flags.GetStringSlice("area")
		next.InterestAreas = areas
	}
	if flags.Changed("type") {
		types, _ := flags.GetStringSlice("type")
		next.JobTypes = types
	}
	if flags.Changed("mode") {
		modes, _ := flags.GetStringSlice("mode")
		next.WorkModes = modes
	}

	return next
}
