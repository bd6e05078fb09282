// Package policy contains the domain types for resource-access blocking:
// the block list store, the case-insensitive alias index, the timed-block
// window, and the evaluation engine that combines them.
package policy

import (
	"fmt"
	"strings"
)

// ResourceClass identifies which category of resource an access attempt
// concerns. The set is fixed: deployables share the item rules, so they
// do not get a class of their own.
type ResourceClass int

const (
	// ClassItem covers inventory items and deployables.
	ClassItem ResourceClass = iota
	// ClassClothing covers wearable resources.
	ClassClothing
	// ClassAmmo covers ammunition resources.
	ClassAmmo
)

// Classes lists all resource classes in a stable order, for iteration.
var Classes = []ResourceClass{ClassItem, ClassClothing, ClassAmmo}

// Valid reports whether the class is one of the defined constants.
func (c ResourceClass) Valid() bool {
	return c >= ClassItem && c <= ClassAmmo
}

// String implements fmt.Stringer for ResourceClass.
func (c ResourceClass) String() string {
	switch c {
	case ClassItem:
		return "item"
	case ClassClothing:
		return "clothing"
	case ClassAmmo:
		return "ammo"
	default:
		return fmt.Sprintf("unknown(%d)", int(c))
	}
}

// classSynonyms maps command-surface category tokens to a ResourceClass.
// Singular and plural spellings both select the same class.
var classSynonyms = map[string]ResourceClass{
	"item":       ClassItem,
	"items":      ClassItem,
	"clothing":   ClassClothing,
	"clothes":    ClassClothing,
	"ammo":       ClassAmmo,
	"ammunition": ClassAmmo,
}

// ParseClass resolves a category token from the command surface into a
// ResourceClass. The lookup is case-insensitive over a fixed synonym table.
func ParseClass(token string) (ResourceClass, bool) {
	c, ok := classSynonyms[strings.ToLower(strings.TrimSpace(token))]
	return c, ok
}

// BlockKind distinguishes entries that never expire from entries that are
// only effective while the timed window is active.
type BlockKind int

const (
	// KindPermanent blocks the resource until the entry is removed.
	KindPermanent BlockKind = iota
	// KindTimed blocks the resource only while the window is active.
	KindTimed
)

// Kinds lists both block kinds in a stable order, for iteration.
var Kinds = []BlockKind{KindPermanent, KindTimed}

// Valid reports whether the kind is one of the defined constants.
func (k BlockKind) Valid() bool {
	return k == KindPermanent || k == KindTimed
}

// String implements fmt.Stringer for BlockKind.
func (k BlockKind) String() string {
	switch k {
	case KindPermanent:
		return "permanent"
	case KindTimed:
		return "timed"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// ParseKind resolves a block-type token from the command surface.
func ParseKind(token string) (BlockKind, bool) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "permanent", "perm":
		return KindPermanent, true
	case "timed", "wipe":
		return KindTimed, true
	default:
		return 0, false
	}
}

// Verdict is the three-variant result of evaluating one access attempt.
type Verdict int

const (
	// VerdictAllow permits the access attempt.
	VerdictAllow Verdict = iota
	// VerdictTimedDeny blocks the attempt while the window is active.
	VerdictTimedDeny
	// VerdictPermanentDeny blocks the attempt unconditionally.
	VerdictPermanentDeny
)

// String implements fmt.Stringer for Verdict.
func (v Verdict) String() string {
	switch v {
	case VerdictAllow:
		return "allow"
	case VerdictTimedDeny:
		return "timed_deny"
	case VerdictPermanentDeny:
		return "permanent_deny"
	default:
		return fmt.Sprintf("unknown(%d)", int(v))
	}
}

// MutationOutcome is the typed result of a store mutation. Callers use it
// to distinguish a state change (Added, Removed) from a no-op
// (AlreadyPresent, NotFound) and from a malformed request (InvalidSelector).
type MutationOutcome int

const (
	// OutcomeAdded means the alias was appended to the list.
	OutcomeAdded MutationOutcome = iota
	// OutcomeAlreadyPresent means a case-insensitive match already existed.
	OutcomeAlreadyPresent
	// OutcomeRemoved means at least one matching entry was removed.
	OutcomeRemoved
	// OutcomeNotFound means no matching entry existed.
	OutcomeNotFound
	// OutcomeInvalidSelector means the (class, kind) pair was not valid.
	OutcomeInvalidSelector
)

// Changed reports whether the outcome represents an actual state change.
// Only changed outcomes trigger persistence, index rebuild, gate recompute,
// and an audit entry.
func (o MutationOutcome) Changed() bool {
	return o == OutcomeAdded || o == OutcomeRemoved
}

// String implements fmt.Stringer for MutationOutcome.
func (o MutationOutcome) String() string {
	switch o {
	case OutcomeAdded:
		return "added"
	case OutcomeAlreadyPresent:
		return "already_present"
	case OutcomeRemoved:
		return "removed"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeInvalidSelector:
		return "invalid_selector"
	default:
		return fmt.Sprintf("unknown(%d)", int(o))
	}
}

// Snapshot is the exchange form of the store: one alias list per
// (class, kind). It is what the persistence collaborator loads and saves.
// Nil lists are legal in a snapshot and are coerced to empty on load.
type Snapshot struct {
	PermanentItems    []string
	TimedItems        []string
	PermanentClothing []string
	TimedClothing     []string
	PermanentAmmo     []string
	TimedAmmo         []string
}
