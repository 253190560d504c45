// Package dismissal reads and writes the persisted sets of dismissed notice
// ids. Sets live in a types.OptionStore under the shared global key or under
// a per-user key, and Resolver layers both into a single snapshot.
package dismissal
