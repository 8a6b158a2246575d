// Package nested provides auto-vivifying nested maps.
//
// A [Map] never reports a missing key on read. Asking it for a key it does
// not hold creates a default value, stores it under that key and returns it,
// so arbitrarily long key chains can be read or assigned without first
// building the intermediate levels by hand.
//
// # Variants
//
// Two constructors cover the common shapes:
//
//   - [NewBounded] builds a map of fixed depth n. The first n-1 levels
//     vivify child maps; the last level vivifies leaves of type V (the zero
//     value of V, or the result of a [WithLeaf] factory).
//   - [NewUnbounded] builds a map whose missing keys always vivify another
//     unbounded map. Leaves only appear where the caller assigns them.
//
// # Nodes
//
// Every stored value is a [Node]: either a leaf holding a V or a child
// [Map]. Nodes are stored by pointer, so the node returned from [Map.Get] is
// the one held by its parent and mutating it updates the structure in place.
//
// # Counting
//
// The bounded variant with an integer leaf type is the usual way to count
// occurrences of key tuples:
//
//	counts := nested.MustBounded[string, int](2)
//	for _, r := range rows {
//	    n, _ := counts.Lookup(r.Region, r.Product)
//	    _ = n.Update(func(c int) int { return c + 1 })
//	}
//
// # Ordering
//
// Keys are kept in insertion order. [Map.Keys], [Map.All], [Map.Walk] and
// [Map.MarshalJSON] all follow it, which keeps encoded output stable.
//
// A Map is not safe for concurrent mutation.
package nested
