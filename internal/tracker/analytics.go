package tracker

import "github.com/revolveme/backend/internal/catalog"

// Progress is the completion ratio over the trackable entries of the
// workout plan. Total can be zero for an empty plan; rendering a
// percentage out of that is the caller's problem.
type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// PersonalRecord is the highest weight logged for an exercise across all
// users.
type PersonalRecord struct {
	User  string  `json:"user"`
	Kilos float64 `json:"kilos"`
}

func computeProgress(completed map[string]bool, plan catalog.Plan) Progress {
	progress := Progress{
		Total: len(plan.TrackableIDs()),
	}
	for _, done := range completed {
		if done {
			progress.Completed++
		}
	}
	return progress
}

// computePersonalRecords scans weight records in user registry order and
// keeps the maximum per exercise. On equal weights the earlier-registered
// user keeps the record, a later user never takes over with a tie.
func computePersonalRecords(users []string, weights map[WeightKey]float64) map[string]PersonalRecord {
	records := make(map[string]PersonalRecord)
	for _, user := range users {
		for key, kilos := range weights {
			if key.User != user {
				continue
			}
			current, ok := records[key.ExerciseID]
			if !ok || kilos > current.Kilos {
				records[key.ExerciseID] = PersonalRecord{
					User:  user,
					Kilos: kilos,
				}
			}
		}
	}
	return records
}
