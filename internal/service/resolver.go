package service

import (
	"sort"
	"strings"

	"github.com/masumi-network/kodosumi-bridge/internal/core"
	"github.com/masumi-network/kodosumi-bridge/internal/domain/model"
)

// FlowMatch is the outcome of resolving a flow name fragment against the
// flow service catalogue.
type FlowMatch struct {
	Flow core.FlowDescriptor
	// Total is how many discoverable flows matched the fragment. Greater
	// than one means the selection fell back to the deterministic tie-break.
	Total int
}

// ResolveFlow selects the flow whose summary contains fragment,
// case-insensitively. When several flows match, the one with the
// lexicographically smallest summary wins so repeated submissions pick the
// same flow regardless of catalogue ordering. Returns *model.FlowNotFoundError
// when nothing matches.
func ResolveFlow(flows []core.FlowDescriptor, fragment string) (FlowMatch, error) {
	needle := strings.ToLower(strings.TrimSpace(fragment))

	matches := make([]core.FlowDescriptor, 0, 1)
	for _, f := range flows {
		if strings.Contains(strings.ToLower(f.Summary), needle) {
			matches = append(matches, f)
		}
	}
	if len(matches) == 0 {
		return FlowMatch{}, &model.FlowNotFoundError{Fragment: fragment}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Summary != matches[j].Summary {
			return matches[i].Summary < matches[j].Summary
		}
		return matches[i].URL < matches[j].URL
	})

	return FlowMatch{Flow: matches[0], Total: len(matches)}, nil
}
