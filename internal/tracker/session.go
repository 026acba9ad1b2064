package tracker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/revolveme/backend/internal/catalog"
	"github.com/revolveme/backend/internal/kvstore"
	"github.com/revolveme/backend/internal/telemetry/tracing"
)

// Persisted slice keys. The names (and the legacy weight key encoding) are
// kept compatible with the data written by the original PWA localStorage
// client, so an import of that data keeps working.
const (
	keyWeights          = "weights"
	keyNotes            = "notes"
	keyCompleted        = "completed"
	keyAllUsers         = "allUsers"
	keyWorkoutStreak    = "workoutStreak"
	keyLastWorkoutDate  = "lastWorkoutDate"
	keyYearGoal         = "yearGoal"
	keyWeightGoal       = "weightGoal"
	keyYearGoalLocked   = "yearGoalLocked"
	keyWeightGoalLocked = "weightGoalLocked"
	keyCollapsed        = "collapsed"
	keyHelpDismissed    = "helpDismissed"
)

var allKeys = []string{
	keyWeights, keyNotes, keyCompleted, keyAllUsers,
	keyWorkoutStreak, keyLastWorkoutDate,
	keyYearGoal, keyWeightGoal, keyYearGoalLocked, keyWeightGoalLocked,
	keyCollapsed, keyHelpDismissed,
}

// Session owns the whole tracked state of one shared-device workout session
// and is its only mutator. Every mutation validates, updates the in-memory
// state and then synchronously persists the affected slices, so a crash can
// lose at most the latest mutation.
type Session struct {
	mutex sync.Mutex

	kv   kvstore.KV
	plan catalog.Plan

	registry  *Registry
	log       *Log
	streak    *Streak
	goals     *Goals
	stopwatch *Stopwatch

	collapsed     map[string]bool
	helpDismissed bool

	now func() time.Time
}

type SessionOption func(*Session)

// WithNowFunc pins the session clock, used in tests for date-boundary
// streak cases.
func WithNowFunc(now func() time.Time) SessionOption {
	return func(s *Session) {
		s.now = now
	}
}

// WithTickInterval shortens the stopwatch tick, used in tests.
func WithTickInterval(interval time.Duration) SessionOption {
	return func(s *Session) {
		s.stopwatch = NewStopwatch(interval)
	}
}

// NewSession restores the session state from the given store. Each persisted
// slice falls back to its default when absent or unreadable; a corrupted
// slice never prevents the session from starting.
func NewSession(ctx context.Context, kv kvstore.KV, plan catalog.Plan, opts ...SessionOption) *Session {
	users := kvstore.Load(ctx, kv, keyAllUsers, []string{DefaultUser})
	rawWeights := kvstore.Load(ctx, kv, keyWeights, map[string]float64{})

	s := &Session{
		kv:       kv,
		plan:     plan,
		registry: NewRegistry(users),
		log: NewLog(
			decodeWeights(rawWeights, users),
			kvstore.Load(ctx, kv, keyNotes, map[string]string{}),
			kvstore.Load(ctx, kv, keyCompleted, map[string]bool{}),
		),
		streak: &Streak{
			Count:    kvstore.Load(ctx, kv, keyWorkoutStreak, 0),
			LastDate: kvstore.Load(ctx, kv, keyLastWorkoutDate, ""),
		},
		goals: &Goals{
			Year: YearGoal{
				Value:  kvstore.Load(ctx, kv, keyYearGoal, ""),
				Locked: kvstore.Load(ctx, kv, keyYearGoalLocked, false),
			},
			Weight: WeightGoal{
				Value:  kvstore.Load(ctx, kv, keyWeightGoal, float64(0)),
				Locked: kvstore.Load(ctx, kv, keyWeightGoalLocked, false),
			},
		},
		stopwatch:     NewStopwatch(time.Second),
		collapsed:     kvstore.Load(ctx, kv, keyCollapsed, map[string]bool{}),
		helpDismissed: kvstore.Load(ctx, kv, keyHelpDismissed, false),
		now:           time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Session) Plan() catalog.Plan {
	return s.plan
}

//// users

func (s *Session) Users() []string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.registry.List()
}

func (s *Session) AddUser(ctx context.Context, name string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.addUser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.registry.Add(name); err != nil {
		return err
	}
	kvstore.Save(ctx, s.kv, keyAllUsers, s.registry.List())
	return nil
}

// RenameUser replaces oldName in the user list and rewrites all weight
// records of that user under the new name.
func (s *Session) RenameUser(ctx context.Context, oldName, newName string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.renameUser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.registry.Rename(oldName, newName); err != nil {
		return err
	}
	s.log.RenameUser(oldName, newName)

	kvstore.Save(ctx, s.kv, keyAllUsers, s.registry.List())
	s.persistWeights(ctx)
	return nil
}

// DeleteUser removes the user and all their weight records. The last
// remaining user can not be deleted. Destructive-action confirmation is the
// caller's responsibility.
func (s *Session) DeleteUser(ctx context.Context, name string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.deleteUser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.registry.Remove(name); err != nil {
		return err
	}
	s.log.RemoveUser(name)

	kvstore.Save(ctx, s.kv, keyAllUsers, s.registry.List())
	s.persistWeights(ctx)
	return nil
}

//// weights / notes / completion

// SetWeight stores the parsed weight for (user, exercise); zero or invalid
// input clears the record. The user must be registered.
func (s *Session) SetWeight(ctx context.Context, exerciseID, user, rawValue string) (_ float64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.setWeight")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.registry.Has(user) {
		return 0, fmt.Errorf("%w: %s not found", ErrInvalidName, user)
	}

	kilos := s.log.SetWeight(exerciseID, user, rawValue)
	s.persistWeights(ctx)
	return kilos, nil
}

func (s *Session) Weight(exerciseID, user string) (float64, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.log.Weight(exerciseID, user)
}

// WeightsSnapshot returns all weight records keyed by the wire encoding
// used towards clients and the persistence medium.
func (s *Session) WeightsSnapshot() map[string]float64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return encodeWeights(s.log.weights)
}

func (s *Session) NotesSnapshot() map[string]string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	notes := make(map[string]string, len(s.log.notes))
	for exerciseID, text := range s.log.notes {
		notes[exerciseID] = text
	}
	return notes
}

func (s *Session) CompletedSnapshot() map[string]bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	completed := make(map[string]bool, len(s.log.completed))
	for exerciseID, done := range s.log.completed {
		completed[exerciseID] = done
	}
	return completed
}

func (s *Session) SetNote(ctx context.Context, exerciseID, text string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.log.SetNote(exerciseID, text)
	kvstore.Save(ctx, s.kv, keyNotes, s.log.notes)
}

func (s *Session) Note(exerciseID string) string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.log.Note(exerciseID)
}

// ToggleCompletion flips the completion flag of an exercise and returns the
// new state. Completing an exercise (the false->true edge) feeds the streak;
// un-completing has no streak effect.
func (s *Session) ToggleCompletion(ctx context.Context, exerciseID string) bool {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.toggleCompletion")
	defer span.End()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	completed := s.log.ToggleCompletion(exerciseID)
	kvstore.Save(ctx, s.kv, keyCompleted, s.log.completed)

	if completed {
		s.streak.RecordCompletion(s.now())
		kvstore.Save(ctx, s.kv, keyWorkoutStreak, s.streak.Count)
		kvstore.Save(ctx, s.kv, keyLastWorkoutDate, s.streak.LastDate)
	}

	return completed
}

func (s *Session) IsCompleted(exerciseID string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.log.IsCompleted(exerciseID)
}

//// streak + analytics

func (s *Session) Streak() Streak {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return *s.streak
}

func (s *Session) Progress() Progress {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return computeProgress(s.log.completed, s.plan)
}

func (s *Session) PersonalRecords() map[string]PersonalRecord {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return computePersonalRecords(s.registry.users, s.log.weights)
}

//// goals

func (s *Session) Goals() Goals {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return *s.goals
}

func (s *Session) SetYearGoalDraft(ctx context.Context, text string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.goals.SetYearDraft(text); err != nil {
		return err
	}
	kvstore.Save(ctx, s.kv, keyYearGoal, s.goals.Year.Value)
	return nil
}

func (s *Session) LockYearGoal(ctx context.Context) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	locked := s.goals.LockYear()
	if locked {
		kvstore.Save(ctx, s.kv, keyYearGoal, s.goals.Year.Value)
		kvstore.Save(ctx, s.kv, keyYearGoalLocked, true)
	}
	return locked
}

func (s *Session) SetWeightGoalDraft(ctx context.Context, kilos float64) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.goals.SetWeightDraft(kilos); err != nil {
		return err
	}
	kvstore.Save(ctx, s.kv, keyWeightGoal, s.goals.Weight.Value)
	return nil
}

func (s *Session) LockWeightGoal(ctx context.Context) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	locked := s.goals.LockWeight()
	if locked {
		kvstore.Save(ctx, s.kv, keyWeightGoalLocked, true)
	}
	return locked
}

//// auxiliary preferences

func (s *Session) SetCollapsed(ctx context.Context, section string, collapsed bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.collapsed[section] = collapsed
	kvstore.Save(ctx, s.kv, keyCollapsed, s.collapsed)
}

func (s *Session) Collapsed() map[string]bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	collapsed := make(map[string]bool, len(s.collapsed))
	for section, c := range s.collapsed {
		collapsed[section] = c
	}
	return collapsed
}

func (s *Session) DismissHelp(ctx context.Context) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.helpDismissed = true
	kvstore.Save(ctx, s.kv, keyHelpDismissed, true)
}

func (s *Session) HelpDismissed() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.helpDismissed
}

//// workout stopwatch

func (s *Session) StartTimer() {
	s.stopwatch.Start()
}

func (s *Session) StopTimer() {
	s.stopwatch.Stop()
}

func (s *Session) ResetTimer() {
	s.stopwatch.Reset()
}

func (s *Session) TimerElapsed() int {
	return s.stopwatch.Elapsed()
}

func (s *Session) TimerRunning() bool {
	return s.stopwatch.Running()
}

//// reset

// ResetAll wipes the whole session: users back to the single default user,
// all records, notes, flags, goals (including their locks) and the streak
// cleared, the stopwatch stopped and zeroed, and every persisted key
// removed. This is the only operation that un-locks a locked goal.
// Destructive-action confirmation is the caller's responsibility.
func (s *Session) ResetAll(ctx context.Context) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.resetAll")
	defer span.End()

	// the stopwatch goroutine takes the stopwatch mutex on every tick,
	// stop it before taking the session mutex
	s.stopwatch.Stop()
	s.stopwatch.Reset()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.registry.Reset()
	s.log.Reset()
	s.streak.Reset()
	s.goals.Reset()
	s.collapsed = make(map[string]bool)
	s.helpDismissed = false

	kvstore.Remove(ctx, s.kv, allKeys...)
}

func (s *Session) persistWeights(ctx context.Context) {
	kvstore.Save(ctx, s.kv, keyWeights, encodeWeights(s.log.weights))
}
