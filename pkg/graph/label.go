package graph

import "strings"

// PriorityMarker is the label substring that marks a host as part of known
// malicious traffic. A vertex whose label contains it keeps that label for
// the rest of the build.
const PriorityMarker = "Botnet"

// IsPriorityLabel reports whether label carries the priority marker.
func IsPriorityLabel(label string) bool {
	return strings.Contains(label, PriorityMarker)
}

// mergeLabel returns the label a registered vertex should hold after being
// seen again with incoming.
func mergeLabel(stored, incoming string) string {
	if IsPriorityLabel(incoming) && !IsPriorityLabel(stored) {
		return incoming
	}
	return stored
}
