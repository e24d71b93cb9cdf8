package scoring

import "strings"

// IntervalState is where an interval sits in its logging lifecycle.
type IntervalState int

const (
	Empty IntervalState = iota
	LoggedUncategorized
	Categorized
)

var stateNames = map[IntervalState]string{
	Empty:               "empty",
	LoggedUncategorized: "uncategorized",
	Categorized:         "categorized",
}

func (s IntervalState) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

// StateOf derives the state from an interval's activity text and whether it
// has a category. A category without text is still Empty.
func StateOf(activityText string, hasCategory bool) IntervalState {
	if strings.TrimSpace(activityText) == "" {
		return Empty
	}
	if !hasCategory {
		return LoggedUncategorized
	}
	return Categorized
}
