// Package status defines the pen lifecycle lexicon: the closed four-state
// set, its display metadata, and the forward progression used by the demo
// simulator.
package status

// Status is one of the four pen lifecycle states.
type Status string

const (
	NotStarted Status = "not_started"
	Open       Status = "open"
	Closed     Status = "closed"
	Verified   Status = "verified"
)

// All lists the lifecycle states in progression order.
var All = []Status{NotStarted, Open, Closed, Verified}

// Valid reports whether s is a member of the closed lifecycle set.
func Valid(s Status) bool {
	switch s {
	case NotStarted, Open, Closed, Verified:
		return true
	}
	return false
}

// Label returns the human-facing display text. Unknown values render as
// their raw string rather than failing.
func Label(s Status) string {
	switch s {
	case NotStarted:
		return "Not Started"
	case Open:
		return "Open"
	case Closed:
		return "Closed"
	case Verified:
		return "Verified"
	}
	return string(s)
}

// ColorClass returns the badge styling class for a status. Unknown values
// fall back to the not_started styling, never an error.
func ColorClass(s Status) string {
	switch s {
	case Verified:
		return "bg-green-100 text-green-800"
	case Closed:
		return "bg-blue-100 text-blue-800"
	case Open:
		return "bg-red-100 text-red-800"
	}
	return "bg-gray-100 text-gray-800"
}

// Next returns the state following s in the forward progression.
// Verified is terminal; unrecognized input maps to Open.
func Next(s Status) Status {
	switch s {
	case NotStarted:
		return Open
	case Open:
		return Closed
	case Closed:
		return Verified
	case Verified:
		return Verified
	}
	return Open
}

// Priority is the urgency classification of a pen.
type Priority string

const (
	Routine   Priority = "routine"
	Important Priority = "important"
	Critical  Priority = "critical"
)

// ValidPriority reports whether p is a recognized priority.
func ValidPriority(p Priority) bool {
	switch p {
	case Routine, Important, Critical:
		return true
	}
	return false
}
