package index

// cacheState is the three-state memoization flag from spec §4.4: a
// cyclic analysis (does dictionary A transitively contain dictionary
// B? does a required field reach here through inheritance?) marks a
// name "pending" the moment it starts visiting it, so a cycle back to
// that name resolves instead of recursing forever, and "resolved" once
// the real answer is known, so repeat callers don't re-walk the graph.
type cacheState int

const (
	cacheAbsent cacheState = iota
	cachePending
	cacheResolved
)

// cacheKey scopes a cached answer to both the analysis kind and the
// subject name, so dictionary-containment and required-field caches
// (keyed on the same dictionary names) never collide.
type cacheKey struct {
	analysis string
	name     string
}

type cacheEntry struct {
	state cacheState
	value bool
}

// Memo runs a cyclic boolean analysis over name, memoizing the result
// under analysis so repeated callers (and indirect re-entry through a
// cycle) don't re-walk the graph. compute is called at most once per
// name per analysis; if compute re-enters Memo for the same
// (analysis, name) pair — i.e. the graph has a cycle — the re-entrant
// call observes the pending marker and returns pessimistic
// immediately, without calling compute again.
func (idx *Index) Memo(analysis, name string, pessimistic bool, compute func() bool) bool {
	key := cacheKey{analysis, name}
	entry, ok := idx.entries()[key]
	if ok {
		switch entry.state {
		case cachePending:
			return pessimistic
		case cacheResolved:
			return entry.value
		}
	}

	idx.entries()[key] = cacheEntry{state: cachePending}
	result := compute()
	idx.entries()[key] = cacheEntry{state: cacheResolved, value: result}
	return result
}

func (idx *Index) entries() map[cacheKey]cacheEntry {
	if idx.entriesMap == nil {
		idx.entriesMap = map[cacheKey]cacheEntry{}
	}
	return idx.entriesMap
}
