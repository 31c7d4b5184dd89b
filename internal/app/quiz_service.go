package app

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"jleague-quiz/internal/dataset"
	"jleague-quiz/internal/domain"
	"jleague-quiz/internal/report"
	"jleague-quiz/internal/scoring"
)

// SessionRepository abstracts how quiz sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	Put(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// DatasetRepository loads prefecture datasets (from cache/backing store).
type DatasetRepository interface {
	GetDataset(ctx context.Context, datasetID string) (domain.Dataset, error)
}

// Shuffler reorders the prefectures of a new session in place.
type Shuffler func([]domain.Prefecture)

// QuizService contains the core quiz use cases.
type QuizService struct {
	sessions SessionRepository
	datasets DatasetRepository
	scorer   *scoring.Scorer
	locale   report.Locale
	shuffle  Shuffler
	newID    func() string
	now      func() time.Time
}

// Option customizes a QuizService.
type Option func(*QuizService)

// WithLocale sets the language of summaries and share text.
func WithLocale(locale report.Locale) Option {
	return func(s *QuizService) { s.locale = locale }
}

// WithShuffler replaces the random question order, mostly for tests.
func WithShuffler(shuffle Shuffler) Option {
	return func(s *QuizService) { s.shuffle = shuffle }
}

// WithIDGenerator replaces uuid session ids.
func WithIDGenerator(newID func() string) Option {
	return func(s *QuizService) { s.newID = newID }
}

// WithClock is test-only for deterministic timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *QuizService) { s.now = now }
}

func NewQuizService(store SessionRepository, datasets DatasetRepository, scorer *scoring.Scorer, opts ...Option) *QuizService {
	if scorer == nil {
		scorer = scoring.NewScorer(nil)
	}
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	var rndMu sync.Mutex
	s := &QuizService{
		sessions: store,
		datasets: datasets,
		scorer:   scorer,
		locale:   report.Japanese,
		shuffle: func(prefs []domain.Prefecture) {
			rndMu.Lock()
			defer rndMu.Unlock()
			rnd.Shuffle(len(prefs), func(i, j int) { prefs[i], prefs[j] = prefs[j], prefs[i] })
		},
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Locale reports the language the service renders reports in.
func (s *QuizService) Locale() report.Locale {
	return s.locale
}

// Start opens a new session over datasetID with a freshly shuffled question order.
func (s *QuizService) Start(ctx context.Context, datasetID string) (domain.Question, error) {
	if datasetID == "" {
		datasetID = dataset.DefaultID
	}
	ds, err := s.datasets.GetDataset(ctx, datasetID)
	if err != nil {
		return domain.Question{}, err
	}
	if len(ds.Prefectures) == 0 {
		return domain.Question{}, fmt.Errorf("%w: %s has no prefectures", domain.ErrInvalidDataset, datasetID)
	}

	order := dataset.Clone(ds).Prefectures
	s.shuffle(order)

	session := NewSessionWithClock(s.newID(), ds.ID, order, s.now)
	s.sessions.Put(session)
	log.Printf("session %s started (%s, %d questions)", session.ID(), ds.ID, len(order))
	return session.question()
}

// Current returns the active question of a session.
func (s *QuizService) Current(_ context.Context, sessionID string) (domain.Question, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Question{}, domain.ErrSessionNotFound
	}
	return session.question()
}

// SubmitAnswer scores answers for the active question, records the result and advances.
func (s *QuizService) SubmitAnswer(_ context.Context, sessionID string, answers []string) (domain.AnswerOutcome, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.AnswerOutcome{}, domain.ErrSessionNotFound
	}
	return session.answer(s.scorer, answers)
}

// Finish completes a session, possibly before every question was answered, and returns its report.
// Finishing twice returns the same report.
func (s *QuizService) Finish(_ context.Context, sessionID string) (domain.Report, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Report{}, domain.ErrSessionNotFound
	}
	if session.finish() {
		log.Printf("session %s finished (%d answered)", session.ID(), session.answered())
	}
	return session.report(s.locale)
}

// Report returns the report of a finished session.
func (s *QuizService) Report(_ context.Context, sessionID string) (domain.Report, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Report{}, domain.ErrSessionNotFound
	}
	return session.report(s.locale)
}

// End drops a session.
func (s *QuizService) End(_ context.Context, sessionID string) {
	s.sessions.Delete(sessionID)
}

// Session holds one player's progress through a shuffled dataset. Results are append-only.
type Session struct {
	id        string
	datasetID string
	createdAt time.Time
	now       func() time.Time

	mu        sync.RWMutex
	order     []domain.Prefecture
	index     int
	results   []domain.QuestionResult
	exhausted bool
	completed bool
	updatedAt time.Time
}

// NewSession is exported for infrastructure layers that need to seed sessions.
func NewSession(id, datasetID string, order []domain.Prefecture) *Session {
	return NewSessionWithClock(id, datasetID, order, time.Now)
}

// NewSessionWithClock is test-only for deterministic timestamps.
func NewSessionWithClock(id, datasetID string, order []domain.Prefecture, now func() time.Time) *Session {
	created := now()
	return &Session{
		id:        id,
		datasetID: datasetID,
		createdAt: created,
		now:       now,
		order:     order,
		updatedAt: created,
	}
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// UpdatedAt reports the last time the session changed.
func (s *Session) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

// Completed reports whether the session was finished.
func (s *Session) Completed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.completed
}

func (s *Session) answered() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}

func (s *Session) question() (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.questionLocked()
}

func (s *Session) questionLocked() (domain.Question, error) {
	if s.completed {
		return domain.Question{}, domain.ErrQuizCompleted
	}
	if s.exhausted {
		return domain.Question{}, domain.ErrNoActiveQuestion
	}
	p := s.order[s.index]
	return domain.Question{
		SessionID:  s.id,
		DatasetID:  s.datasetID,
		Prefecture: p.Name,
		Slots:      len(p.Teams),
		Number:     s.index + 1,
		Total:      len(s.order),
		Last:       s.index == len(s.order)-1,
	}, nil
}

func (s *Session) answer(scorer *scoring.Scorer, answers []string) (domain.AnswerOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.questionLocked(); err != nil {
		return domain.AnswerOutcome{}, err
	}
	result, err := scorer.ScoreQuestion(s.order[s.index], answers)
	if err != nil {
		return domain.AnswerOutcome{}, err
	}
	s.results = append(s.results, result)
	s.updatedAt = s.now()

	if s.index == len(s.order)-1 {
		s.exhausted = true
		return domain.AnswerOutcome{Result: result}, nil
	}
	s.index++
	next, err := s.questionLocked()
	if err != nil {
		return domain.AnswerOutcome{}, err
	}
	return domain.AnswerOutcome{Result: result, Next: &next}, nil
}

// finish marks the session completed and reports whether this call changed it.
func (s *Session) finish() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed {
		return false
	}
	s.completed = true
	s.updatedAt = s.now()
	return true
}

func (s *Session) report(locale report.Locale) (domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.completed {
		return domain.Report{}, domain.ErrQuizInProgress
	}
	return report.Build(s.id, locale, s.results, scoring.Aggregate(s.results)), nil
}
