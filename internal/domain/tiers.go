package domain

import "strings"

// Tier is a named difficulty bucket.
type Tier string

const (
	TierEasy   Tier = "easy"
	TierMedium Tier = "medium"
	TierHard   Tier = "hard"
	TierCustom Tier = "custom"
)

// Score values of the built-in tiers.
const (
	EasyScore    = 5
	MediumScore  = 10
	HardScore    = 20
	DefaultScore = MediumScore
)

// TierForScore maps a question weight to its tier.
func TierForScore(score int) Tier {
	switch score {
	case EasyScore:
		return TierEasy
	case MediumScore:
		return TierMedium
	case HardScore:
		return TierHard
	default:
		return TierCustom
	}
}

// ScoreForDifficulty converts a difficulty label to a weight. ok is false for
// unknown labels, in which case DefaultScore is returned.
func ScoreForDifficulty(label string) (int, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case string(TierEasy):
		return EasyScore, true
	case string(TierMedium):
		return MediumScore, true
	case string(TierHard):
		return HardScore, true
	default:
		return DefaultScore, false
	}
}
