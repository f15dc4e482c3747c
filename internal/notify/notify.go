// Package notify simulates new-listing alerts for students who opted in.
package notify

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/spigell/vagas/internal/profile"
	"github.com/spigell/vagas/internal/store"
)

const (
	DefaultSchedule = "@every 30s"
	DefaultChance   = 0.2

	enabledValue = "true"

	WelcomeTitle = "Notificações ativadas! 🎉"
	WelcomeBody  = "Você receberá alertas quando surgirem vagas compatíveis com seu perfil."
)

// Mock is a canned listing used by the simulated alerts.
type Mock struct {
	Title   string
	Company string
	Match   int
}

var MockListings = []Mock{
	{Title: "Desenvolvedor Full Stack - Estágio", Company: "Inatel Competence Center", Match: 95},
	{Title: "Engenheiro de IoT - Júnior", Company: "Padtec", Match: 88},
	{Title: "Analista de Segurança Cibernética", Company: "Siemens", Match: 92},
	{Title: "Desenvolvedor Mobile - Flutter", Company: "Stefanini", Match: 85},
}

// Random is the subset of *rand.Rand the simulator draws from.
type Random interface {
	Float64() float64
	IntN(n int) int
}

type globalRandom struct{}

func (globalRandom) Float64() float64 { return rand.Float64() }
func (globalRandom) IntN(n int) int   { return rand.IntN(n) }

// Option configures Simulator.
type Option func(*Simulator)

func WithChance(chance float64) Option {
	return func(s *Simulator) {
		s.chance = chance
	}
}

func WithRandom(random Random) Option {
	return func(s *Simulator) {
		s.random = random
	}
}

// WithClock sets a custom clock for notification timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Simulator) {
		s.clock = clock
	}
}

func WithSchedule(spec string) Option {
	return func(s *Simulator) {
		s.schedule = spec
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Simulator) {
		if logger == nil {
			logger = zap.NewNop()
		}
		s.logger = logger
	}
}

type Simulator struct {
	store    store.Store
	notifier Notifier
	logger   *zap.Logger

	chance   float64
	random   Random
	clock    func() time.Time
	schedule string

	mu   sync.Mutex
	cron *cron.Cron
}

func NewSimulator(s store.Store, notifier Notifier, opts ...Option) *Simulator {
	sim := &Simulator{
		store:    s,
		notifier: notifier,
		logger:   zap.NewNop(),
		chance:   DefaultChance,
		random:   globalRandom{},
		clock:    time.Now,
		schedule: DefaultSchedule,
	}

	for _, opt := range opts {
		opt(sim)
	}

	return sim
}

// Enabled reports whether the student opted in.
func (s *Simulator) Enabled(ctx context.Context) (bool, error) {
	raw, found, err := s.store.Get(ctx, store.NotificationsKey)
	if err != nil {
		return false, fmt.Errorf("read notifications flag: %w", err)
	}
	return found && string(raw) == enabledValue, nil
}

// Enable persists the opt-in and sends the welcome notification.
func (s *Simulator) Enable(ctx context.Context) error {
	if err := s.store.Set(ctx, store.NotificationsKey, []byte(enabledValue)); err != nil {
		return fmt.Errorf("save notifications flag: %w", err)
	}

	return s.notifier.Notify(ctx, Notification{
		Title: WelcomeTitle,
		Body:  WelcomeBody,
		At:    s.clock(),
	})
}

func (s *Simulator) Disable(ctx context.Context) error {
	if err := s.store.Delete(ctx, store.NotificationsKey); err != nil {
		return fmt.Errorf("clear notifications flag: %w", err)
	}
	return nil
}

// Check runs one simulation tick and reports whether a notification was sent.
// Nothing is sent unless the student opted in and the stored profile has a
// course and interest areas.
func (s *Simulator) Check(ctx context.Context) (bool, error) {
	enabled, err := s.Enabled(ctx)
	if err != nil || !enabled {
		return false, err
	}

	var p profile.Profile
	if _, err := store.GetJSON(ctx, s.store, store.ProfileKey, &p); err != nil {
		return false, err
	}
	if p.Course == "" || len(p.InterestAreas) == 0 {
		s.logger.Debug("skipping notification check: profile not configured")
		return false, nil
	}

	s.mu.Lock()
	fire := s.random.Float64() < s.chance
	var mock Mock
	if fire {
		mock = MockListings[s.random.IntN(len(MockListings))]
	}
	s.mu.Unlock()

	if !fire {
		return false, nil
	}

	notification := Notification{
		Title: fmt.Sprintf("Nova vaga: %s (%d%% match)", mock.Title, mock.Match),
		Body:  fmt.Sprintf("%s está contratando! Clique para ver detalhes.", mock.Company),
		At:    s.clock(),
	}
	if err := s.notifier.Notify(ctx, notification); err != nil {
		return false, fmt.Errorf("send notification: %w", err)
	}

	return true, nil
}

// Start schedules Check until Stop is called or ctx is done.
func (s *Simulator) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return nil
	}

	c := cron.New(cron.WithLogger(cronLogger{s.logger.Sugar()}))
	_, err := c.AddFunc(s.schedule, func() {
		if _, err := s.Check(ctx); err != nil {
			s.logger.Error("notification check failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	c.Start()
	s.cron = c
	s.logger.Info("notification simulation started", zap.String("schedule", s.schedule))

	return nil
}

// Stop halts the schedule and waits for a running check to finish.
func (s *Simulator) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c == nil {
		return
	}

	<-c.Stop().Done()
	s.logger.Info("notification simulation paused")
}

// cronLogger routes cron's own messages through zap.
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
