package cmd

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/spigell/vagas/internal/matching"
	"github.com/spigell/vagas/internal/portal"
	"github.com/spigell/vagas/internal/profile"
)

const (
	PromptDone = "✔ Concluir"
	maxPeriod  = 10
)

var courseOptions = []string{
	matching.CourseComputerEngineering,
	matching.CourseSoftwareEngineering,
	matching.CourseElectricalEngineering,
	matching.CourseTelecommunicationsEngineering,
	matching.CourseControlAutomationEngineering,
}

var (
	successStyle = promptui.Styler(promptui.FGGreen, promptui.FGBold)
	errorStyle   = promptui.Styler(promptui.FGRed, promptui.FGBold)
)

// consoleNotices prints notices the way the page shows its toasts.
func consoleNotices() portal.NoticeFunc {
	return func(n portal.Notice) {
		if n.Level == portal.NoticeError {
			fmt.Println(errorStyle("✗ " + n.Text))
			return
		}
		fmt.Println(successStyle("✓ " + n.Text))
	}
}

// promptSetup asks for the whole profile, prefilled from current.
func promptSetup(current profile.Profile, catalog portal.Catalog) (profile.Profile, error) {
	prefs, err := promptPreferences(current, catalog)
	if err != nil {
		return profile.Profile{}, err
	}

	types, err := chooseMany("Tipos de vaga", catalog.Types, current.JobTypes)
	if err != nil {
		return profile.Profile{}, err
	}

	modes, err := chooseMany("Modalidades", catalog.Modes, current.WorkModes)
	if err != nil {
		return profile.Profile{}, err
	}

	p := current.WithPreferences(prefs)
	p.JobTypes = types
	p.WorkModes = modes
	return p, nil
}

// promptPreferences asks for the sidebar subset: course, period and areas.
func promptPreferences(current profile.Profile, catalog portal.Catalog) (profile.Preferences, error) {
	course, err := chooseCourse(current.Course)
	if err != nil {
		return profile.Preferences{}, err
	}

	period, err := askPeriod(current.Period)
	if err != nil {
		return profile.Preferences{}, err
	}

	areas, err := chooseMany("Áreas de interesse (mínimo 2)", catalog.Areas, current.InterestAreas)
	if err != nil {
		return profile.Preferences{}, err
	}

	return profile.Preferences{Course: course, Period: period, InterestAreas: areas}, nil
}

func chooseCourse(current string) (string, error) {
	items := slices.Clone(courseOptions)
	if current != "" && !slices.Contains(items, current) {
		items = append(items, current)
	}

	selector := promptui.Select{
		Label: "Curso",
		Items: items,
		Size:  len(items),
	}
	if idx := slices.Index(items, current); idx >= 0 {
		selector.CursorPos = idx
	}

	_, course, err := selector.Run()
	return course, err
}

func askPeriod(current int) (int, error) {
	input := promptui.Prompt{
		Label: "Período",
		Validate: func(s string) error {
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil || n < 1 || n > maxPeriod {
				return fmt.Errorf("informe um período entre 1 e %d", maxPeriod)
			}
			return nil
		},
	}
	if current > 0 {
		input.Default = strconv.Itoa(current)
	}

	value, err := input.Run()
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(value))
}

// chooseMany is a checkbox group: selecting an option toggles it until
// PromptDone is chosen.
func chooseMany(label string, options, selected []string) ([]string, error) {
	chosen := make([]string, 0, len(selected))
	for _, v := range selected {
		if slices.Contains(options, v) {
			chosen = append(chosen, v)
		}
	}

	cursor := 0
	for {
		items := make([]string, 0, len(options)+1)
		for _, option := range options {
			mark := "[ ]"
			if slices.Contains(chosen, option) {
				mark = "[x]"
			}
			items = append(items, mark+" "+option)
		}
		items = append(items, PromptDone)

		selector := promptui.Select{
			Label:     label,
			Items:     items,
			Size:      min(len(items), 12),
			CursorPos: cursor,
		}

		idx, _, err := selector.Run()
		if err != nil {
			return nil, err
		}
		if idx == len(options) {
			// Keep the options' order, not the order they were ticked in.
			out := make([]string, 0, len(chosen))
			for _, option := range options {
				if slices.Contains(chosen, option) {
					out = append(out, option)
				}
			}
			return out, nil
		}

		option := options[idx]
		if i := slices.Index(chosen, option); i >= 0 {
			chosen = slices.Delete(chosen, i, i+1)
		} else {
			chosen = append(chosen, option)
		}
		cursor = idx
	}
}

// interrupted reports whether the user left a prompt with ^C or ^D.
func interrupted(err error) bool {
	return errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF)
}
