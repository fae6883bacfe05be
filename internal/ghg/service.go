package ghg

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service owns the per-user calculator state and keeps it in sync with
// the repository.
type Service struct {
	repo   Repository
	logger *zap.Logger
	units  *UnitTable
	cache  *SummaryCache
	now    func() time.Time

	mu     sync.Mutex
	states map[string]*State
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithUnits overrides the unit table.
func WithUnits(units *UnitTable) Option {
	return func(s *Service) { s.units = units }
}

// NewService creates a new GHG service
func NewService(repo Repository, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		logger: logger,
		units:  DefaultUnitTable(),
		cache:  NewSummaryCache(10 * time.Minute),
		now:    time.Now,
		states: make(map[string]*State),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close releases background resources.
func (s *Service) Close() {
	s.cache.Stop()
}

// Units returns the unit table in use.
func (s *Service) Units() *UnitTable {
	return s.units
}

func newState() *State {
	factors := DefaultFactorTable()
	return &State{
		Entries:   []EmissionEntry{},
		Factors:   factors,
		Selection: DefaultSelection(factors, ScopeOne),
		Step:      StepQuestionnaire,
	}
}

// state returns the user's state, loading it on first access. Callers
// hold s.mu.
func (s *Service) state(ctx context.Context, userID string) *State {
	if st, ok := s.states[userID]; ok {
		return st
	}
	st := s.load(ctx, userID)
	s.states[userID] = st
	return st
}

func (s *Service) load(ctx context.Context, userID string) *State {
	st := newState()

	var q Questionnaire
	if s.restore(ctx, userID, KeyQuestionnaire, &q) {
		st.Questionnaire = q
	}

	var entries []EmissionEntry
	if s.restore(ctx, userID, KeyEntries, &entries) && entries != nil {
		st.Entries = entries
	}

	var saved FactorTable
	if s.restore(ctx, userID, KeyEmissionFactors, &saved) {
		st.Factors = MergeCustomFactors(&saved, DefaultFactorTable())
	}

	var step Step
	if s.restore(ctx, userID, KeyCurrentStep, &step) && step.Valid() {
		st.Step = step
	}

	s.logger.Debug("Loaded GHG state",
		zap.String("user_id", userID),
		zap.Int("entries", len(st.Entries)),
		zap.String("step", string(st.Step)),
	)
	return st
}

// restore loads key into dest and reports whether it succeeded. Missing
// or unreadable data leaves dest untouched; undecodable data is removed.
func (s *Service) restore(ctx context.Context, userID, key string, dest interface{}) bool {
	env, found, err := s.repo.Load(ctx, userID, key)
	if err != nil {
		s.logger.Warn("Failed to load stored data, using defaults",
			zap.String("user_id", userID), zap.String("key", key), zap.Error(err))
		return false
	}
	if !found {
		return false
	}
	if err := env.Decode(dest); err != nil {
		s.logger.Warn("Discarding corrupt stored data",
			zap.String("user_id", userID), zap.String("key", key), zap.Error(err))
		if err := s.repo.Remove(ctx, userID, key); err != nil {
			s.logger.Error("Failed to remove corrupt stored data",
				zap.String("user_id", userID), zap.String("key", key), zap.Error(err))
		}
		return false
	}
	return true
}

// persist writes data under key. Failures are logged and otherwise
// ignored; the in-memory state stays authoritative.
func (s *Service) persist(ctx context.Context, userID, key string, data interface{}) {
	env, err := NewEnvelope(data, s.now())
	if err == nil {
		err = s.repo.Save(ctx, userID, key, env)
	}
	if err != nil {
		s.logger.Error("Failed to persist GHG data",
			zap.String("user_id", userID), zap.String("key", key), zap.Error(err))
	}
}

func (s *Service) touch(userID string, st *State) {
	st.Revision++
	s.cache.Invalidate(userID)
}

func (s *Service) snapshot(userID string, st *State) Snapshot {
	entries := make([]EmissionEntry, len(st.Entries))
	copy(entries, st.Entries)
	errs := make([]ValidationError, len(st.Errors))
	copy(errs, st.Errors)
	return Snapshot{
		UserID:        userID,
		Questionnaire: st.Questionnaire,
		Entries:       entries,
		Factors:       st.Factors.Clone(),
		Selection:     st.Selection,
		Step:          st.Step,
		Errors:        errs,
		Summary:       s.summary(userID, st),
		Revision:      st.Revision,
	}
}

func (s *Service) summary(userID string, st *State) Summary {
	return s.cache.GetOrCompute(userID, st.Revision, func() Summary {
		return Aggregate(st.Entries)
	})
}

// Snapshot returns a copy of the user's state.
func (s *Service) Snapshot(ctx context.Context, userID string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot(userID, s.state(ctx, userID))
}

// SubmitQuestionnaire validates q and, when valid, stamps it and moves the
// user on to the calculator.
func (s *Service) SubmitQuestionnaire(ctx context.Context, userID string, q Questionnaire) (Questionnaire, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(ctx, userID)
	if errs := ValidateQuestionnaire(q); len(errs) > 0 {
		st.Errors = errs
		return Questionnaire{}, errs
	}
	if q.BoundaryApproach != BoundaryControl {
		q.ControlSubtype = ""
	}
	q.OrgName = strings.TrimSpace(q.OrgName)
	now := s.now()
	q.Timestamp = &now

	st.Questionnaire = q
	st.Step = StepCalculator
	st.Errors = nil
	s.touch(userID, st)

	s.persist(ctx, userID, KeyQuestionnaire, q)
	s.persist(ctx, userID, KeyCurrentStep, st.Step)

	s.logger.Info("Questionnaire submitted",
		zap.String("user_id", userID),
		zap.String("org_name", q.OrgName),
	)
	return q, nil
}

// UpdateSelection applies the cascading defaults and stores the result.
func (s *Service) UpdateSelection(ctx context.Context, userID string, next Selection) Selection {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(ctx, userID)
	st.Selection = Cascade(st.Factors, st.Selection, next)
	return st.Selection
}

// CurrentFactor returns the factor for the live selection.
func (s *Service) CurrentFactor(ctx context.Context, userID string) (Selection, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(ctx, userID)
	return st.Selection, ResolveFactor(st.Factors, st.Selection)
}

// Calculate turns the live selection into a ledger entry.
func (s *Service) Calculate(ctx context.Context, userID string) (EmissionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(ctx, userID)
	if !st.Questionnaire.Submitted() {
		err := fieldError(ErrQuestionnaireIncomplete, "questionnaire")
		st.Errors = []ValidationError{*err}
		return EmissionEntry{}, err
	}

	entry, err := Calculate(st.Selection, st.Factors, s.units, s.now())
	if err != nil {
		if ve, ok := err.(*ValidationError); ok {
			st.Errors = []ValidationError{*ve}
		}
		return EmissionEntry{}, err
	}

	st.Entries = append(st.Entries, entry)
	st.Selection.Amount = 0
	st.Errors = nil
	s.touch(userID, st)
	s.persist(ctx, userID, KeyEntries, st.Entries)

	s.logger.Info("Emission calculated",
		zap.String("user_id", userID),
		zap.String("entry_id", entry.ID.String()),
		zap.String("fuel_type", entry.FuelType),
		zap.Float64("emissions_kg", entry.Emissions),
	)
	return entry, nil
}

// Entries returns a copy of the ledger.
func (s *Service) Entries(ctx context.Context, userID string) []EmissionEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(ctx, userID)
	out := make([]EmissionEntry, len(st.Entries))
	copy(out, st.Entries)
	return out
}

// RemoveEntry deletes one ledger entry.
func (s *Service) RemoveEntry(ctx context.Context, userID string, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(ctx, userID)
	for i, e := range st.Entries {
		if e.ID == id {
			st.Entries = append(st.Entries[:i:i], st.Entries[i+1:]...)
			s.touch(userID, st)
			s.persist(ctx, userID, KeyEntries, st.Entries)
			return nil
		}
	}
	return fieldError(ErrEntryNotFound, "id")
}

// ClearEntries empties the ledger.
func (s *Service) ClearEntries(ctx context.Context, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(ctx, userID)
	st.Entries = []EmissionEntry{}
	s.touch(userID, st)
	s.persist(ctx, userID, KeyEntries, st.Entries)
}

// Summary returns the aggregate view of the user's ledger.
func (s *Service) Summary(ctx context.Context, userID string) Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.summary(userID, s.state(ctx, userID))
}

// Factors returns a copy of the user's factor table.
func (s *Service) Factors(ctx context.Context, userID string) *FactorTable {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state(ctx, userID).Factors.Clone()
}

// AddCustomFactor adds a custom fuel at p and selects it when p is the
// live selection's path.
func (s *Service) AddCustomFactor(ctx context.Context, userID string, p Path, name string, factor float64) (FuelFactor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(ctx, userID)
	table, err := AddCustomFactor(st.Factors, p, name, factor, s.now())
	if err != nil {
		if ve, ok := err.(*ValidationError); ok {
			st.Errors = []ValidationError{*ve}
		}
		return FuelFactor{}, err
	}

	name = strings.TrimSpace(name)
	st.Factors = table
	if st.Selection.Path() == NewPath(p.Scope, p.Category, p.FuelCategory) {
		st.Selection.FuelType = name
	}
	st.Errors = nil
	s.touch(userID, st)
	s.persist(ctx, userID, KeyEmissionFactors, st.Factors)

	f, _ := table.Lookup(p, name)
	s.logger.Info("Custom emission factor added",
		zap.String("user_id", userID),
		zap.String("fuel_type", name),
		zap.Float64("factor", factor),
	)
	return f, nil
}

// DeleteCustomFactor removes a custom fuel. A live selection pointing at it
// moves to the first remaining fuel at that path.
func (s *Service) DeleteCustomFactor(ctx context.Context, userID string, p Path, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(ctx, userID)
	name = strings.TrimSpace(name)
	table, err := DeleteCustomFactor(st.Factors, p, name)
	if err != nil {
		if ve, ok := err.(*ValidationError); ok {
			st.Errors = []ValidationError{*ve}
		}
		return err
	}

	st.Factors = table
	st.Errors = nil
	if st.Selection.Path() == NewPath(p.Scope, p.Category, p.FuelCategory) && st.Selection.FuelType == name {
		st.Selection.FuelType = first(table.FuelTypes(p))
	}
	s.touch(userID, st)
	s.persist(ctx, userID, KeyEmissionFactors, st.Factors)

	s.logger.Info("Custom emission factor deleted",
		zap.String("user_id", userID),
		zap.String("fuel_type", name),
	)
	return nil
}

// SetStep moves the user to step.
func (s *Service) SetStep(ctx context.Context, userID string, step Step) error {
	if !step.Valid() {
		return fieldError(ErrInvalidStep, "step")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(ctx, userID)
	st.Step = step
	s.persist(ctx, userID, KeyCurrentStep, step)
	return nil
}

// StoredKeys lists the keys persisted for userID.
func (s *Service) StoredKeys(ctx context.Context, userID string) ([]string, error) {
	return s.repo.Keys(ctx, userID)
}

// Reset discards all state for userID, in memory and in storage.
func (s *Service) Reset(ctx context.Context, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.states, userID)
	s.cache.Invalidate(userID)
	if err := s.repo.Clear(ctx, userID); err != nil {
		s.logger.Error("Failed to clear stored GHG data", zap.String("user_id", userID), zap.Error(err))
	}
	s.logger.Info("GHG data reset", zap.String("user_id", userID))
}
