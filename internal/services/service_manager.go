package services

import (
	"log/slog"
	"time"

	"github.com/SAP-F-2025/quiz-session-service/internal/events"
	"github.com/SAP-F-2025/quiz-session-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-session-service/internal/validator"
)

// ServiceManager exposes every service of the quiz engine to the transport layer.
type ServiceManager interface {
	Session() SessionService
	Result() ResultService
	Practice() PracticeService
	Catalog() CatalogService
	Export() ExportService
}

// Dependencies wires a ServiceManager. Questions and Sequences are optional
// overrides of the stores in Repo (a cached question bank, a redis sequence
// store); Publisher and Now default to a no-op and time.Now.
type Dependencies struct {
	Repo      repositories.Repository
	Questions repositories.QuestionRepository
	Sequences repositories.SequenceRepository
	Publisher events.EventPublisher
	Validator *validator.Validator
	Logger    *slog.Logger
	Now       func() time.Time
	Debug     bool
}

type serviceManager struct {
	session  SessionService
	result   ResultService
	practice PracticeService
	catalog  CatalogService
	export   ExportService
}

func NewServiceManager(deps Dependencies) ServiceManager {
	questions := deps.Questions
	if questions == nil {
		questions = deps.Repo.Questions()
	}
	sequences := deps.Sequences
	if sequences == nil {
		sequences = deps.Repo.Sequences()
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	v := deps.Validator
	if v == nil {
		v = validator.New()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	svcLogger := NewServiceLogger(logger, LogConfig{
		Service:     "quiz-session-service",
		Component:   "engine",
		EnableDebug: deps.Debug,
	})

	e := &engine{
		repo:      deps.Repo,
		questions: questions,
		sequencer: NewSequencer(questions, sequences, svcLogger),
		publisher: deps.Publisher,
		validator: v,
		logger:    logger,
		svcLogger: svcLogger,
		now:       now,
	}

	result := NewResultService(e)
	return &serviceManager{
		session:  NewSessionService(e),
		result:   result,
		practice: NewPracticeService(e),
		catalog:  NewCatalogService(e),
		export:   NewExportService(e, result),
	}
}

func (m *serviceManager) Session() SessionService   { return m.session }
func (m *serviceManager) Result() ResultService     { return m.result }
func (m *serviceManager) Practice() PracticeService { return m.practice }
func (m *serviceManager) Catalog() CatalogService   { return m.catalog }
func (m *serviceManager) Export() ExportService     { return m.export }
