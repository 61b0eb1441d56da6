package model

import "strings"

// bookingTransitions lists the moves allowed when strict status mode is on.
// Completed and cancelled are terminal.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled},
}

// ValidTransitionsFrom returns the statuses reachable from s in strict mode.
func ValidTransitionsFrom(s BookingStatus) []BookingStatus {
	return bookingTransitions[s]
}

// CanTransition reports whether from may move to to in strict mode.
// Re-applying the current status is always allowed.
func CanTransition(from, to BookingStatus) bool {
	if from == to {
		return true
	}
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// DescribeTransitionsFrom renders the reachable statuses for error messages.
func DescribeTransitionsFrom(s BookingStatus) string {
	nexts := ValidTransitionsFrom(s)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	parts := make([]string, len(nexts))
	for i, n := range nexts {
		parts[i] = string(n)
	}
	return strings.Join(parts, ", ")
}
