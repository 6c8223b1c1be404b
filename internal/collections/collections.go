// Package collections holds the shared mutation logic for the ordered
// sub-collections embedded in aggregates: post likes and comments, profile
// experience and education entries.
package collections

import "errors"

// ErrDuplicateEntry is returned by ToggleAdd when the actor already has an entry.
var ErrDuplicateEntry = errors.New("entry already exists")

// ErrEntryNotFound is returned when no entry matches the given predicate.
var ErrEntryNotFound = errors.New("entry not found")

// ErrEntryNotOwned is returned by RemoveOwned when the located entry belongs to
// a different actor.
var ErrEntryNotOwned = errors.New("entry not owned by actor")

// PushFront inserts entry at position 0 so collections read most-recent-first.
func PushFront[T any](list []T, entry T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, entry)
	return append(out, list...)
}

// ToggleAdd inserts entry at the front unless same matches an existing entry,
// in which case it returns ErrDuplicateEntry and the collection unchanged.
func ToggleAdd[T any](list []T, entry T, same func(T) bool) ([]T, error) {
	for _, existing := range list {
		if same(existing) {
			return list, ErrDuplicateEntry
		}
	}
	return PushFront(list, entry), nil
}

// ToggleRemove removes exactly the first entry matched by same. Matching is
// direct predicate equality, never a position derived from identifier strings.
// Returns ErrEntryNotFound when nothing matches.
func ToggleRemove[T any](list []T, same func(T) bool) ([]T, error) {
	return RemoveMatching(list, same)
}

// RemoveMatching removes the first entry matched by match, or returns
// ErrEntryNotFound.
func RemoveMatching[T any](list []T, match func(T) bool) ([]T, error) {
	for i, existing := range list {
		if match(existing) {
			out := make([]T, 0, len(list)-1)
			out = append(out, list[:i]...)
			return append(out, list[i+1:]...), nil
		}
	}
	return list, ErrEntryNotFound
}

// RemoveOwned locates the entry matched by match and removes it only when
// ownedBy reports the caller owns it. Returns ErrEntryNotFound when absent and
// ErrEntryNotOwned on an ownership mismatch.
func RemoveOwned[T any](list []T, match func(T) bool, ownedBy func(T) bool) ([]T, error) {
	for i, existing := range list {
		if match(existing) {
			if !ownedBy(existing) {
				return list, ErrEntryNotOwned
			}
			out := make([]T, 0, len(list)-1)
			out = append(out, list[:i]...)
			return append(out, list[i+1:]...), nil
		}
	}
	return list, ErrEntryNotFound
}
