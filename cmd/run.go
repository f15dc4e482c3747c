package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/vagas/internal/ai"
	"github.com/spigell/vagas/internal/application"
	"github.com/spigell/vagas/internal/filtering"
	"github.com/spigell/vagas/internal/listing"
	"github.com/spigell/vagas/internal/matching"
	"github.com/spigell/vagas/internal/portal"
	"github.com/spigell/vagas/internal/profile"
	"github.com/spigell/vagas/internal/render"
)

const (
	PromptDetails     = "Ver detalhes"
	PromptApply       = "Candidatar-se"
	PromptSort        = "Ordenar"
	PromptFilter      = "Filtrar por tipo e modalidade"
	PromptClear       = "Limpar filtros"
	PromptPreferences = "Editar preferências"
	PromptReport      = "Relatório por empresa"
	PromptDump        = "Salvar vagas em arquivo"
	PromptExit        = "Sair"
	PromptBack        = "Voltar"
)

var errExit = errors.New("exit requested")

var sortLabels = map[filtering.SortKey]string{
	filtering.SortMatch:   "Maior match",
	filtering.SortRecent:  "Mais recentes",
	filtering.SortCompany: "Empresa (A-Z)",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start an interactive session: set up your profile, browse, filter and apply",
	Run: func(_ *cobra.Command, _ []string) {
		run()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// interactive carries what the action handlers share.
type interactive struct {
	ctx     context.Context
	session *session
	state   *portal.State
	drafter ai.Drafter
	logger  *zap.Logger
}

func run() {
	ctx := context.Background()

	s := newSession(ctx)
	defer s.Close()

	state, err := loadPortal(ctx, s, consoleNotices())
	if err != nil {
		s.logger.Fatal("loading the portal", zap.Error(err))
	}

	r := &interactive{ctx: ctx, session: s, state: state, logger: s.logger}

	// The setup form opens on every session, prefilled from the stored profile.
	if err := r.setup(); err != nil {
		if interrupted(err) {
			return
		}
		s.logger.Fatal("profile setup", zap.Error(err))
	}

	r.drafter = s.drafter(ctx)

	state.Subscribe(printView)
	printView(state.View())

	actions := promptui.Select{
		Label: "O que deseja fazer?",
		Items: []string{
			PromptDetails, PromptApply, PromptSort, PromptFilter, PromptClear,
			PromptPreferences, PromptReport, PromptDump, PromptExit,
		},
		Size: 9,
	}

	for {
		_, action, err := actions.Run()
		if err != nil {
			if interrupted(err) {
				return
			}
			s.logger.Fatal("exiting", zap.Error(err))
		}

		if err := r.handleAction(action); err != nil {
			if errors.Is(err, errExit) || interrupted(err) {
				return
			}
			s.logger.Error("action failed", zap.String("action", action), zap.Error(err))
		}
	}
}

func (r *interactive) setup() error {
	for {
		p, err := promptSetup(r.state.Profile(), r.state.Catalog())
		if err != nil {
			return err
		}

		err = r.state.SubmitSetup(r.ctx, p)
		if err == nil {
			return nil
		}
		if !isValidation(err) {
			return err
		}
	}
}

func (r *interactive) handleAction(action string) error {
	switch action {
	case PromptDetails:
		item, err := r.chooseListing()
		if err != nil || item == nil {
			return err
		}
		return render.Details(os.Stdout, *item)
	case PromptApply:
		item, err := r.chooseListing()
		if err != nil || item == nil {
			return err
		}
		return r.apply(*item)
	case PromptSort:
		return r.sort()
	case PromptFilter:
		return r.filter()
	case PromptClear:
		return r.state.ClearFilters(r.ctx)
	case PromptPreferences:
		prefs, err := promptPreferences(r.state.Profile(), r.state.Catalog())
		if err != nil {
			return err
		}
		if err := r.state.EditPreferences(r.ctx, prefs); err != nil && !isValidation(err) {
			return err
		}
		return nil
	case PromptReport:
		pretty, _ := json.MarshalIndent(currentListings(r.state.View()).ReportByCompany(), "", "  ")
		fmt.Println(string(pretty))
		return nil
	case PromptDump:
		filename, err := listing.DumpToTmpFile(r.state.View().Listings)
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		r.logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// chooseListing returns nil when the user goes back.
func (r *interactive) chooseListing() (*matching.ScoredListing, error) {
	view := r.state.View()
	if len(view.Listings) == 0 {
		fmt.Println(render.EmptyState)
		return nil, nil
	}

	items := make([]string, 0, len(view.Listings)+1)
	for _, item := range view.Listings {
		items = append(items, render.Label(item))
	}

	selector := promptui.Select{
		Label: "Escolha uma vaga e pressione ENTER",
		Items: append(items, PromptBack),
		Size:  min(len(items)+1, 12),
	}

	idx, _, err := selector.Run()
	if err != nil || idx == len(view.Listings) {
		return nil, err
	}

	item, ok := r.state.Find(view.Listings[idx].ID)
	if !ok {
		return nil, fmt.Errorf("there is no such listing id %d", view.Listings[idx].ID)
	}
	return &item, nil
}

func (r *interactive) apply(item matching.ScoredListing) error {
	fmt.Println(render.ApplicationHeader(item))

	name, err := ask("Nome completo", "", required)
	if err != nil {
		return err
	}
	email, err := ask("E-mail", "", validEmail)
	if err != nil {
		return err
	}
	phone, err := ask("Telefone (opcional)", "", nil)
	if err != nil {
		return err
	}
	link, err := ask("LinkedIn (opcional)", "", nil)
	if err != nil {
		return err
	}

	draft := ""
	if r.drafter != nil {
		draft, err = r.drafter.Draft(r.ctx, ai.DraftRequest{
			Profile:       r.state.Profile(),
			Listing:       item.Listing,
			ApplicantName: name,
		})
		if err != nil {
			r.logger.Warn("could not draft a message", zap.Error(err))
			draft = ""
		}
	}

	message, err := ask("Mensagem", draft, required)
	if err != nil {
		return err
	}

	_, err = r.state.Apply(r.ctx, application.Application{
		ListingID:      item.ID,
		ApplicantName:  name,
		ApplicantEmail: email,
		ApplicantPhone: phone,
		ProfileLink:    link,
		Message:        message,
	})
	if err != nil && !isValidation(err) {
		return err
	}
	return nil
}

func (r *interactive) sort() error {
	items := make([]string, 0, len(filtering.SortKeys))
	for _, key := range filtering.SortKeys {
		items = append(items, sortLabels[key])
	}

	idx, _, err := (&promptui.Select{Label: "Ordenar por", Items: items}).Run()
	if err != nil {
		return err
	}

	return r.state.SetSort(r.ctx, filtering.SortKeys[idx])
}

func (r *interactive) filter() error {
	view := r.state.View()
	catalog := r.state.Catalog()

	types, err := chooseMany("Tipo de vaga", catalog.Types, view.Types)
	if err != nil {
		return err
	}
	modes, err := chooseMany("Modalidade", catalog.Modes, view.Modes)
	if err != nil {
		return err
	}

	return r.state.SetFilters(r.ctx, types, modes)
}

func printView(view portal.View) {
	if view.Display == profile.ProfileRequired {
		fmt.Println(profileRequiredHint)
		return
	}
	fmt.Println()
	if err := render.Cards(os.Stdout, view.Listings); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}

func currentListings(view portal.View) *listing.Listings {
	items := make([]*listing.Listing, 0, len(view.Listings))
	for _, item := range view.Listings {
		items = append(items, item.Listing)
	}
	return &listing.Listings{Items: items}
}

func ask(label, def string, validate promptui.ValidateFunc) (string, error) {
	input := promptui.Prompt{
		Label:     label,
		Default:   def,
		AllowEdit: def != "",
		Validate:  validate,
	}
	value, err := input.Run()
	return strings.TrimSpace(value), err
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("campo obrigatório")
	}
	return nil
}

func validEmail(s string) error {
	if _, err := mail.ParseAddress(strings.TrimSpace(s)); err != nil {
		return errors.New("e-mail inválido")
	}
	return nil
}

// isValidation reports errors already shown to the user as a notice.
func isValidation(err error) bool {
	return errors.Is(err, profile.ErrCourseRequired) ||
		errors.Is(err, profile.ErrPeriodRequired) ||
		errors.Is(err, profile.ErrTooFewAreas) ||
		errors.Is(err, profile.ErrJobTypeRequired) ||
		errors.Is(err, profile.ErrWorkModeRequired) ||
		errors.Is(err, application.ErrMissingField)
}

// parseListingID accepts "3" as well as "#3".
func parseListingID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(arg), "#"))
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid listing id %q", arg)
	}
	return id, nil
}
