package policy

import "strings"

// listKey selects one of the six block lists.
type listKey struct {
	class ResourceClass
	kind  BlockKind
}

// Store owns the six ordered block lists, keyed by (class, kind).
// Insertion order is preserved so listing output is deterministic; it has
// no effect on evaluation, which goes through the Index.
//
// Store is not internally synchronized. The mutation path (mutate, persist,
// rebuild index, recompute gate) must run as one unit under the caller's
// lock; see AdminService.
type Store struct {
	lists map[listKey][]string
}

// NewStore creates an empty Store with all six lists present.
func NewStore() *Store {
	s := &Store{lists: make(map[listKey][]string, len(Classes)*len(Kinds))}
	for _, c := range Classes {
		for _, k := range Kinds {
			s.lists[listKey{c, k}] = nil
		}
	}
	return s
}

// Add appends alias to the selected list unless a case-insensitive match is
// already present. Duplicate adds are a no-op, not an error.
func (s *Store) Add(class ResourceClass, kind BlockKind, alias string) MutationOutcome {
	if !class.Valid() || !kind.Valid() {
		return OutcomeInvalidSelector
	}
	key := listKey{class, kind}
	for _, existing := range s.lists[key] {
		if strings.EqualFold(existing, alias) {
			return OutcomeAlreadyPresent
		}
	}
	s.lists[key] = append(s.lists[key], alias)
	return OutcomeAdded
}

// Remove deletes every case-insensitive match of alias from the selected
// list. With dedup on Add there is at most one, but a loaded snapshot may
// carry duplicates, so all matches go.
func (s *Store) Remove(class ResourceClass, kind BlockKind, alias string) MutationOutcome {
	if !class.Valid() || !kind.Valid() {
		return OutcomeInvalidSelector
	}
	key := listKey{class, kind}
	kept := s.lists[key][:0]
	removed := false
	for _, existing := range s.lists[key] {
		if strings.EqualFold(existing, alias) {
			removed = true
			continue
		}
		kept = append(kept, existing)
	}
	if !removed {
		return OutcomeNotFound
	}
	s.lists[key] = kept
	return OutcomeRemoved
}

// Resolve returns a copy of the selected list in insertion order.
// An invalid selector yields nil.
func (s *Store) Resolve(class ResourceClass, kind BlockKind) []string {
	if !class.Valid() || !kind.Valid() {
		return nil
	}
	src := s.lists[listKey{class, kind}]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// LoadSnapshot replaces all six lists with the snapshot's contents.
// Nil lists become empty, and entries that are blank after trimming are
// dropped, so a partially malformed persisted record never poisons the
// store with null-ish entries.
func (s *Store) LoadSnapshot(snap Snapshot) {
	s.lists[listKey{ClassItem, KindPermanent}] = coerceList(snap.PermanentItems)
	s.lists[listKey{ClassItem, KindTimed}] = coerceList(snap.TimedItems)
	s.lists[listKey{ClassClothing, KindPermanent}] = coerceList(snap.PermanentClothing)
	s.lists[listKey{ClassClothing, KindTimed}] = coerceList(snap.TimedClothing)
	s.lists[listKey{ClassAmmo, KindPermanent}] = coerceList(snap.PermanentAmmo)
	s.lists[listKey{ClassAmmo, KindTimed}] = coerceList(snap.TimedAmmo)
}

// Snapshot returns the current contents of all six lists, for persistence.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		PermanentItems:    s.Resolve(ClassItem, KindPermanent),
		TimedItems:        s.Resolve(ClassItem, KindTimed),
		PermanentClothing: s.Resolve(ClassClothing, KindPermanent),
		TimedClothing:     s.Resolve(ClassClothing, KindTimed),
		PermanentAmmo:     s.Resolve(ClassAmmo, KindPermanent),
		TimedAmmo:         s.Resolve(ClassAmmo, KindTimed),
	}
}

// coerceList copies a persisted list, mapping nil to empty and skipping
// entries that trim to nothing.
func coerceList(src []string) []string {
	out := make([]string, 0, len(src))
	for _, alias := range src {
		if strings.TrimSpace(alias) == "" {
			continue
		}
		out = append(out, alias)
	}
	return out
}
