package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fixedItem struct {
	score  float64
	weight int
}

func (f fixedItem) Score() float64   { return f.score }
func (f fixedItem) ScoreWeight() int { return f.weight }

func TestItemScoreIsRatioTimesTen(t *testing.T) {
	for target := MinLevel; target <= MaxLevel; target++ {
		for achieved := MinLevel; achieved <= MaxLevel; achieved++ {
			assert.Equal(t, float64(achieved)/float64(target)*10, ItemScore(achieved, target))
		}
	}
	assert.Equal(t, 8.75, ItemScore(7, 8))
}

func TestItemScoreAboveTargetIsNotClamped(t *testing.T) {
	// Current behavior: over-achievement scores above 10.
	assert.Equal(t, 20.0, ItemScore(10, 5))
	assert.Equal(t, 20.0, Objective{Target: 5, Achieved: 10, Weight: 10}.Score())
}

func TestItemScoreZeroTarget(t *testing.T) {
	assert.Equal(t, 0.0, ItemScore(5, 0))
}

func TestCompositeScoreEmpty(t *testing.T) {
	assert.Equal(t, 0.0, CompositeScore([]Objective{}))
	assert.Equal(t, 0.0, CompositeScore[Competency](nil))
}

func TestCompositeScoreEqualWeights(t *testing.T) {
	items := []fixedItem{{score: 10, weight: 50}, {score: 0, weight: 50}}
	assert.Equal(t, 5.0, CompositeScore(items))
}

func TestCompositeScoreZeroTotalWeight(t *testing.T) {
	items := []fixedItem{{score: 9, weight: 0}, {score: 4, weight: 0}}
	assert.Equal(t, 0.0, CompositeScore(items))
}

func TestCompositeScoreWeightedObjectives(t *testing.T) {
	objectives := []Objective{
		{Target: 8, Achieved: 7, Weight: 40},
		{Target: 9, Achieved: 8, Weight: 35},
	}
	// (8.75*40 + 8.888..*35) / 75 = 8.8148...
	assert.Equal(t, 8.8, CompositeScore(objectives))
}

func TestCompositeScoreCompetencies(t *testing.T) {
	competencies := []Competency{
		{RequiredLevel: 8, ActualLevel: 6, Weight: 50},
		{RequiredLevel: 5, ActualLevel: 5, Weight: 50},
	}
	assert.Equal(t, 8.8, CompositeScore(competencies))
}

func TestCompositeScoreWeightsNeedNotSumToHundred(t *testing.T) {
	items := []fixedItem{{score: 6, weight: 10}, {score: 9, weight: 20}}
	assert.Equal(t, 8.0, CompositeScore(items))
}

func TestRoundScore(t *testing.T) {
	assert.Equal(t, 8.8, RoundScore(8.75))
	assert.Equal(t, 7.0, RoundScore(6.96))
	assert.Equal(t, 0.0, RoundScore(0.04))
}
