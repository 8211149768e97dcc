package evaluation

import "strings"

type Kind string

const (
	KindQuarterly Kind = "Quarterly"
	KindAnnual    Kind = "Annual"
	KindOptional  Kind = "Optional"
)

// ParseKind matches a kind case-insensitively. Unknown input is returned
// as-is so the generator reports it as a field error.
func ParseKind(raw string) Kind {
	trimmed := strings.TrimSpace(raw)
	for _, k := range []Kind{KindQuarterly, KindAnnual, KindOptional} {
		if strings.EqualFold(trimmed, string(k)) {
			return k
		}
	}
	return Kind(trimmed)
}

const (
	TypeQuarterly = "Quarterly Review"
	TypeMidYear   = "Mid-Year Review"
	TypeAnnual    = "Annual Review"
	TypeOptional  = "Optional Review"
)

var Types = []string{TypeQuarterly, TypeMidYear, TypeAnnual, TypeOptional}

type ObjectiveStatus string

const (
	ObjectiveNotStarted ObjectiveStatus = "not-started"
	ObjectiveInProgress ObjectiveStatus = "in-progress"
	ObjectiveCompleted  ObjectiveStatus = "completed"
)

type Category string

const (
	CategoryCore       Category = "Core"
	CategoryLeadership Category = "Leadership"
	CategoryFunctional Category = "Functional"
)

const (
	MinLevel  = 1
	MaxLevel  = 10
	MinWeight = 1
	MaxWeight = 100

	MinQuarter = 1
	MaxQuarter = 6

	MaxScore = 10.0
)

func knownType(value string) bool {
	for _, t := range Types {
		if t == value {
			return true
		}
	}
	return false
}
