package tracker

import (
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

// WeightKey identifies a single weight record. Keeping user and exercise as
// separate fields avoids the separator-collision ambiguity of the legacy
// "<user>_<exerciseId>" string keys; those are only produced/consumed at the
// persistence boundary, for compatibility with data written by older clients.
type WeightKey struct {
	User       string
	ExerciseID string
}

const weightKeySeparator = "_"

func (k WeightKey) encode() string {
	return k.User + weightKeySeparator + k.ExerciseID
}

// decodeWeights converts a persisted legacy weight map into structured keys.
// A user name may itself contain the separator, so keys are matched against
// the known user list, longest user name first. Keys that match no known user
// belong to since-deleted users (or corrupted data) and are dropped.
func decodeWeights(raw map[string]float64, users []string) map[WeightKey]float64 {
	byLengthDesc := make([]string, len(users))
	copy(byLengthDesc, users)
	sort.Slice(byLengthDesc, func(i, j int) bool {
		return len(byLengthDesc[i]) > len(byLengthDesc[j])
	})

	weights := make(map[WeightKey]float64, len(raw))
	for rawKey, kilos := range raw {
		matched := false
		for _, user := range byLengthDesc {
			if strings.HasPrefix(rawKey, user+weightKeySeparator) {
				weights[WeightKey{
					User:       user,
					ExerciseID: rawKey[len(user)+len(weightKeySeparator):],
				}] = kilos
				matched = true
				break
			}
		}
		if !matched {
			log.Warnf("dropping weight record with unknown user: [%s]", rawKey)
		}
	}
	return weights
}

func encodeWeights(weights map[WeightKey]float64) map[string]float64 {
	raw := make(map[string]float64, len(weights))
	for key, kilos := range weights {
		raw[key.encode()] = kilos
	}
	return raw
}
