// Package reconcile merges the local cache with the remote snapshot and
// writes the result back to the local store.
package reconcile

// Identifiable is anything keyed by a stable id.
type Identifiable interface {
	GetID() string
}

// MergeByID combines two collections keyed by id. Cloud entries always win a
// collision; local entries survive only when the cloud lacks their id. Nothing
// is ever removed, so an id deleted remotely lives on locally.
// The result lists cloud entries in cloud order followed by local-only entries.
func MergeByID[T Identifiable](local, cloud []T) []T {
	merged := make([]T, 0, len(cloud)+len(local))
	pos := make(map[string]int, len(cloud)+len(local))

	for _, c := range cloud {
		if i, ok := pos[c.GetID()]; ok {
			merged[i] = c
			continue
		}
		pos[c.GetID()] = len(merged)
		merged = append(merged, c)
	}
	for _, l := range local {
		if _, ok := pos[l.GetID()]; ok {
			continue
		}
		pos[l.GetID()] = len(merged)
		merged = append(merged, l)
	}
	return merged
}
