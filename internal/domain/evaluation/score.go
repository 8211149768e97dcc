package evaluation

import "math"

// Weighted is anything that contributes a 0-10 score with a percentage weight.
type Weighted interface {
	Score() float64
	ScoreWeight() int
}

// ItemScore is achieved/target scaled to 10. Results above 10 are kept when
// achieved exceeds target.
func ItemScore(achieved, target int) float64 {
	if target == 0 {
		return 0
	}
	return float64(achieved) / float64(target) * 10
}

// CompositeScore is the weight-normalised mean of the item scores rounded to
// one decimal place.
func CompositeScore[T Weighted](items []T) float64 {
	if len(items) == 0 {
		return 0
	}
	var weighted, total float64
	for _, item := range items {
		w := float64(item.ScoreWeight())
		weighted += item.Score() * w
		total += w
	}
	if total == 0 {
		return 0
	}
	return RoundScore(weighted / total)
}

func RoundScore(value float64) float64 {
	return math.Round(value*10) / 10
}
