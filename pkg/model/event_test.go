package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/seatwise/pkg/model"
)

func TestChaosLevelStrategy(t *testing.T) {
	testCases := []struct {
		chaos    float64
		expected model.Strategy
	}{
		{0, model.StrategyHarmony},
		{3, model.StrategyHarmony}, // band boundary is inclusive-low
		{3.1, model.StrategyDiversity},
		{5, model.StrategyDiversity},
		{6, model.StrategyDiversity},
		{6.1, model.StrategyOpposition},
		{10, model.StrategyOpposition},
	}

	for _, tc := range testCases {
		strategy := model.ChaosLevel(tc.chaos).Strategy()
		gt.Equal(t, strategy, tc.expected)
	}
}

func TestChaosLevelClamp(t *testing.T) {
	gt.Equal(t, model.ChaosLevel(-1).Clamp(), model.ChaosLevel(0))
	gt.Equal(t, model.ChaosLevel(11).Clamp(), model.ChaosLevel(10))
	gt.Equal(t, model.ChaosLevel(5.5).Clamp(), model.ChaosLevel(5.5))
}

func TestChaosLevelValidate(t *testing.T) {
	gt.NoError(t, model.ChaosLevel(0).Validate())
	gt.NoError(t, model.ChaosLevel(10).Validate())
	gt.Error(t, model.ChaosLevel(-0.1).Validate())
	gt.Error(t, model.ChaosLevel(10.1).Validate())
}

func TestEventValidate(t *testing.T) {
	event := &model.Event{
		ID:            model.NewEventID(),
		Name:          "Launch Party",
		TotalTables:   4,
		SeatsPerTable: 6,
		ChaosLevel:    5,
	}
	gt.NoError(t, event.Validate())
	gt.Equal(t, event.Capacity(), 24)

	event.TotalTables = 0
	gt.Error(t, event.Validate())
}

func TestOpinionFactText(t *testing.T) {
	opinion := &model.Opinion{
		Question: "Morning person?",
		Answer:   "Yes, love early mornings",
	}
	gt.Equal(t, opinion.FactText(), "Morning person?: Yes, love early mornings")
}

func TestMatchResultMatched(t *testing.T) {
	noMatch := &model.MatchResult{Confidence: 0}
	gt.False(t, noMatch.Matched())

	match := &model.MatchResult{AttendeeID: model.NewAttendeeID(), Confidence: 0.8}
	gt.True(t, match.Matched())
}

func TestPairContains(t *testing.T) {
	pair := model.Pair{A: "a", B: "b"}
	gt.True(t, pair.Contains("a"))
	gt.True(t, pair.Contains("b"))
	gt.False(t, pair.Contains("c"))
}
