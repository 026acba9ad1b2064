package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Exercise is a single entry of a workout day. Only entries carrying a
// non-empty ID are trackable (completion, weights, notes); the rest are
// display-only, e.g. cardio warm-ups.
type Exercise struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name"`
	Sets   string `json:"sets"`
	Note   string `json:"note,omitempty"`
	Cardio bool   `json:"cardio,omitempty"`
}

type Day struct {
	Title     string     `json:"title"`
	Exercises []Exercise `json:"exercises"`
}

// Plan is the externally supplied, read-only schedule of days and exercises.
type Plan map[string]Day

func LoadFromFile(path string) (Plan, error) {
	planFileData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workout plan file: %w", err)
	}

	var plan Plan
	if err := json.Unmarshal(planFileData, &plan); err != nil {
		return nil, fmt.Errorf("decode workout plan: %w", err)
	}

	if len(plan) == 0 {
		return nil, fmt.Errorf("workout plan [%s] has no days", path)
	}

	return plan, nil
}

// TrackableIDs returns the IDs of all entries that participate in
// completion / weight / note / streak tracking.
func (p Plan) TrackableIDs() []string {
	var ids []string
	for _, dayName := range p.DayNames() {
		for _, ex := range p[dayName].Exercises {
			if ex.ID != "" {
				ids = append(ids, ex.ID)
			}
		}
	}
	return ids
}

// ExerciseName resolves an exercise ID to its display name,
// falling back to the ID itself for unknown entries.
func (p Plan) ExerciseName(id string) string {
	for _, day := range p {
		for _, ex := range day.Exercises {
			if ex.ID != "" && ex.ID == id {
				return ex.Name
			}
		}
	}
	return id
}

func (p Plan) DayNames() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
