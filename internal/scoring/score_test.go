package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	deep    = &Category{ID: "deep", Label: "Highly Productive", Color: "#22c55e", Value: 100}
	prod    = &Category{ID: "prod", Label: "Productive", Color: "#3b82f6", Value: 75}
	neutral = &Category{ID: "neutral", Label: "Neutral", Color: "#eab308", Value: 50}
	waste   = &Category{ID: "waste", Label: "Non-Productive", Color: "#ef4444", Value: 0}
)

func TestScoreNothingLogged(t *testing.T) {
	intervals := []Interval{{}, {}, {ActivityText: "reading"}}
	score := CalculateDailyScore(intervals, 15)

	assert.Equal(t, 0.0, score.ProductivityPercentage)
	assert.Equal(t, 0, score.LoggedIntervals)
	assert.Equal(t, 3, score.TotalIntervals)
	assert.Empty(t, score.CategoryBreakdown)
}

func TestScoreEmptyInput(t *testing.T) {
	score := CalculateDailyScore(nil, 15)
	assert.Equal(t, DailyScore{}, score)
}

func TestScoreSingleCategory(t *testing.T) {
	for _, c := range []*Category{deep, prod, neutral, waste} {
		t.Run(c.Label, func(t *testing.T) {
			intervals := []Interval{
				{ActivityText: "a", Category: c},
				{ActivityText: "b", Category: c},
				{ActivityText: "c", Category: c},
				{},
			}
			score := CalculateDailyScore(intervals, 20)

			assert.Equal(t, float64(c.Value), score.ProductivityPercentage)
			assert.Equal(t, 3, score.LoggedIntervals)
			assert.Equal(t, 4, score.TotalIntervals)
			require.Len(t, score.CategoryBreakdown, 1)
			assert.Equal(t, 3, score.CategoryBreakdown[0].IntervalCount)
			assert.Equal(t, 60, score.CategoryBreakdown[0].TotalMinutes)
			assert.Equal(t, c.ID, score.CategoryBreakdown[0].CategoryID)
		})
	}
}

func TestScoreUncategorizedNotLogged(t *testing.T) {
	intervals := []Interval{
		{ActivityText: "email", Category: prod},
		{ActivityText: "unsorted thing"},
		{Category: deep},
	}
	score := CalculateDailyScore(intervals, 15)

	assert.Equal(t, 1, score.LoggedIntervals)
	assert.Equal(t, 75.0, score.ProductivityPercentage)
	require.Len(t, score.CategoryBreakdown, 1)
	assert.Equal(t, "prod", score.CategoryBreakdown[0].CategoryID)
}

func TestScoreMixedRounding(t *testing.T) {
	intervals := []Interval{
		{ActivityText: "a", Category: deep},
		{ActivityText: "b", Category: prod},
		{ActivityText: "c", Category: waste},
	}
	// (100 + 75 + 0) / 300 * 100 = 58.333...
	score := CalculateDailyScore(intervals, 15)
	assert.Equal(t, 58.3, score.ProductivityPercentage)
}

func TestScoreBreakdownFirstSeenOrder(t *testing.T) {
	intervals := []Interval{
		{ActivityText: "a", Category: neutral},
		{ActivityText: "b", Category: deep},
		{ActivityText: "c", Category: neutral},
		{ActivityText: "d", Category: waste},
	}
	score := CalculateDailyScore(intervals, 30)

	require.Len(t, score.CategoryBreakdown, 3)
	assert.Equal(t, []string{"neutral", "deep", "waste"}, breakdownIDs(score.CategoryBreakdown))
	assert.Equal(t, 2, score.CategoryBreakdown[0].IntervalCount)
	assert.Equal(t, 60, score.CategoryBreakdown[0].TotalMinutes)
}

func TestScoreOrderIndependent(t *testing.T) {
	a := []Interval{
		{ActivityText: "a", Category: neutral},
		{ActivityText: "b", Category: deep},
		{ActivityText: "c", Category: prod},
		{ActivityText: "d"},
	}
	b := []Interval{a[3], a[2], a[1], a[0]}

	sa, sb := CalculateDailyScore(a, 15), CalculateDailyScore(b, 15)
	assert.Equal(t, sa.ProductivityPercentage, sb.ProductivityPercentage)
	assert.Equal(t, sa.LoggedIntervals, sb.LoggedIntervals)
	assert.Equal(t, sa.TotalIntervals, sb.TotalIntervals)
	assert.ElementsMatch(t, sa.CategoryBreakdown, sb.CategoryBreakdown)
}

func TestScoreIdempotent(t *testing.T) {
	intervals := []Interval{{ActivityText: "a", Category: prod}, {ActivityText: "b", Category: deep}}
	assert.Equal(t, CalculateDailyScore(intervals, 15), CalculateDailyScore(intervals, 15))
	assert.Equal(t, "a", intervals[0].ActivityText)
}

func TestScoreClampsCorruptValues(t *testing.T) {
	over := &Category{ID: "over", Value: 250}
	under := &Category{ID: "under", Value: -40}
	score := CalculateDailyScore([]Interval{
		{ActivityText: "a", Category: over},
		{ActivityText: "b", Category: under},
	}, 15)

	assert.Equal(t, 50.0, score.ProductivityPercentage)
	assert.Equal(t, 100, score.CategoryBreakdown[0].Value)
	assert.Equal(t, 0, score.CategoryBreakdown[1].Value)
}

func TestGeneratedDayScoresZero(t *testing.T) {
	spans := GenerateIntervals(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), Clock{6, 0}, Clock{23, 0}, 10)
	intervals := make([]Interval, len(spans))

	score := CalculateDailyScore(intervals, 10)
	assert.Equal(t, len(spans), score.TotalIntervals)
	assert.Equal(t, 0.0, score.ProductivityPercentage)
	assert.Equal(t, 102, score.TotalIntervals)
}

func TestSortBreakdownByMinutes(t *testing.T) {
	in := []CategoryBreakdown{
		{CategoryID: "a", TotalMinutes: 15},
		{CategoryID: "b", TotalMinutes: 45},
		{CategoryID: "c", TotalMinutes: 30},
	}
	out := SortBreakdownByMinutes(in)
	assert.Equal(t, []string{"b", "c", "a"}, breakdownIDs(out))
	assert.Equal(t, "a", in[0].CategoryID, "input must not be reordered")
}

func TestLoggingCoverage(t *testing.T) {
	assert.Equal(t, 0, LoggingCoverage(0, 0))
	assert.Equal(t, 0, LoggingCoverage(0, 10))
	assert.Equal(t, 33, LoggingCoverage(1, 3))
	assert.Equal(t, 67, LoggingCoverage(2, 3))
	assert.Equal(t, 100, LoggingCoverage(8, 8))
}

func TestStateOf(t *testing.T) {
	assert.Equal(t, Empty, StateOf("", false))
	assert.Equal(t, Empty, StateOf("   ", true))
	assert.Equal(t, LoggedUncategorized, StateOf("coding", false))
	assert.Equal(t, Categorized, StateOf("coding", true))
	assert.Equal(t, "uncategorized", LoggedUncategorized.String())
	assert.Equal(t, "unknown", IntervalState(9).String())
}

func breakdownIDs(b []CategoryBreakdown) []string {
	ids := make([]string, len(b))
	for i, c := range b {
		ids[i] = c.CategoryID
	}
	return ids
}
