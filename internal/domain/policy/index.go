package policy

import "strings"

// Index is a disposable, case-insensitive set view over a Store, used for
// O(1) membership tests on the access-attempt hot path.
//
// The Index is never the source of truth. It must be rebuilt synchronously
// after every store mutation and at process start: a stale index would keep
// evaluating a removed resource as blocked, which is the one inconsistency
// this design treats as worse than a crash.
type Index struct {
	sets map[listKey]map[string]struct{}
}

// BuildIndex constructs a fresh Index in one pass over the store.
func BuildIndex(s *Store) *Index {
	ix := &Index{sets: make(map[listKey]map[string]struct{}, len(s.lists))}
	for key, aliases := range s.lists {
		set := make(map[string]struct{}, len(aliases))
		for _, alias := range aliases {
			set[strings.ToLower(alias)] = struct{}{}
		}
		ix.sets[key] = set
	}
	return ix
}

// Contains reports whether alias is present in the selected set,
// case-insensitively. An invalid selector reports false.
func (ix *Index) Contains(class ResourceClass, kind BlockKind, alias string) bool {
	set, ok := ix.sets[listKey{class, kind}]
	if !ok {
		return false
	}
	_, found := set[strings.ToLower(alias)]
	return found
}

// HasAny reports whether the selected set is non-empty.
func (ix *Index) HasAny(class ResourceClass, kind BlockKind) bool {
	return len(ix.sets[listKey{class, kind}]) > 0
}

// ClassActive reports whether any rule exists for the class, permanent or
// timed. The dispatch gate uses this to decide which event channels the
// host runtime should deliver.
func (ix *Index) ClassActive(class ResourceClass) bool {
	return ix.HasAny(class, KindPermanent) || ix.HasAny(class, KindTimed)
}
