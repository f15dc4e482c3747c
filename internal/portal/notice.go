package portal

import (
	"errors"

	"go.uber.org/zap"

	"github.com/spigell/vagas/internal/application"
	"github.com/spigell/vagas/internal/profile"
)

type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is a transient message for the student, the toast of the page.
type Notice struct {
	Level NoticeLevel
	Text  string
}

type Notices interface {
	Notice(n Notice)
}

// NoticeFunc adapts a function to Notices.
type NoticeFunc func(Notice)

func (f NoticeFunc) Notice(n Notice) { f(n) }

// LogNotices sends notices to the log, for non-interactive commands.
type LogNotices struct {
	Logger *zap.Logger
}

func (l LogNotices) Notice(n Notice) {
	if l.Logger == nil {
		return
	}
	if n.Level == NoticeError {
		l.Logger.Warn(n.Text)
		return
	}
	l.Logger.Info(n.Text)
}

const (
	MsgListingsFailed    = "Erro ao carregar vagas. Tente novamente."
	MsgProfileConfigured = "Perfil configurado com sucesso! Carregando vagas..."
	MsgPreferencesSaved  = "Preferências salvas com sucesso!"
	MsgApplicationSent   = "Candidatura enviada com sucesso!"
	MsgApplicationFailed = "Erro ao enviar candidatura. Tente novamente."
	MsgRequiredFields    = "Por favor, preencha todos os campos obrigatórios!"
	MsgTooFewAreas       = "Selecione pelo menos 2 áreas de interesse!"
	MsgJobTypeRequired   = "Selecione pelo menos um tipo de vaga!"
	MsgWorkModeRequired  = "Selecione pelo menos uma modalidade!"
	MsgSaveFailed        = "Erro ao salvar perfil. Tente novamente."
)

// messageFor maps validation and store errors to the text shown to the student.
func messageFor(err error) string {
	switch {
	case errors.Is(err, profile.ErrCourseRequired),
		errors.Is(err, profile.ErrPeriodRequired),
		errors.Is(err, application.ErrMissingField):
		return MsgRequiredFields
	case errors.Is(err, profile.ErrTooFewAreas):
		return MsgTooFewAreas
	case errors.Is(err, profile.ErrJobTypeRequired):
		return MsgJobTypeRequired
	case errors.Is(err, profile.ErrWorkModeRequired):
		return MsgWorkModeRequired
	default:
		return ""
	}
}
