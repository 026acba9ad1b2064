package tracker

import (
	"strconv"

	log "github.com/sirupsen/logrus"
)

// Log holds per-(user, exercise) weight records plus the per-exercise notes
// and completion flags shared by all users.
type Log struct {
	weights   map[WeightKey]float64
	notes     map[string]string
	completed map[string]bool
}

func NewLog(weights map[WeightKey]float64, notes map[string]string, completed map[string]bool) *Log {
	if weights == nil {
		weights = make(map[WeightKey]float64)
	}
	if notes == nil {
		notes = make(map[string]string)
	}
	if completed == nil {
		completed = make(map[string]bool)
	}
	return &Log{
		weights:   weights,
		notes:     notes,
		completed: completed,
	}
}

// SetWeight parses rawValue and stores it for (user, exerciseID). Negative or
// unparseable input clamps to zero, and a zero weight removes the record
// instead of storing it, so entering 0 is how a weight gets cleared.
// Returns the value now effective for the record (0 meaning removed).
func (l *Log) SetWeight(exerciseID, user, rawValue string) float64 {
	kilos, err := strconv.ParseFloat(rawValue, 64)
	if err != nil {
		log.Warnf("unparseable weight value [%s] for [%s/%s], treating as 0", rawValue, user, exerciseID)
		kilos = 0
	}
	if kilos < 0 {
		kilos = 0
	}

	key := WeightKey{User: user, ExerciseID: exerciseID}
	if kilos == 0 {
		delete(l.weights, key)
		return 0
	}

	l.weights[key] = kilos
	return kilos
}

func (l *Log) Weight(exerciseID, user string) (float64, bool) {
	kilos, ok := l.weights[WeightKey{User: user, ExerciseID: exerciseID}]
	return kilos, ok
}

func (l *Log) SetNote(exerciseID, text string) {
	// empty string is a valid note, not a deletion
	l.notes[exerciseID] = text
}

func (l *Log) Note(exerciseID string) string {
	return l.notes[exerciseID]
}

// ToggleCompletion flips the completion flag and returns the new state.
func (l *Log) ToggleCompletion(exerciseID string) bool {
	completed := !l.completed[exerciseID]
	l.completed[exerciseID] = completed
	return completed
}

func (l *Log) IsCompleted(exerciseID string) bool {
	return l.completed[exerciseID]
}

// RenameUser rewrites every weight record of oldName under newName,
// preserving the values.
func (l *Log) RenameUser(oldName, newName string) {
	for key, kilos := range l.weights {
		if key.User == oldName {
			delete(l.weights, key)
			l.weights[WeightKey{User: newName, ExerciseID: key.ExerciseID}] = kilos
		}
	}
}

// RemoveUser drops every weight record of the given user.
func (l *Log) RemoveUser(name string) {
	for key := range l.weights {
		if key.User == name {
			delete(l.weights, key)
		}
	}
}

func (l *Log) Reset() {
	l.weights = make(map[WeightKey]float64)
	l.notes = make(map[string]string)
	l.completed = make(map[string]bool)
}
