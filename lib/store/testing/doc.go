// Package testing provides standardised tests and benchmarks for
// store implementations that satisfy the store.IStore interface.
//
// The package contains:
//   - RunStoreTests: the conformance suite for the command protocol (replies, misses, protocol errors, ordering, concurrency)
//   - RunStoreBenchmarks: throughput benchmarks for common commands
//
// The same suite runs against the local store and the remote client, so both
// sides of the wire are held to identical replies.
//
// Example usage:
//
//	factory := func() store.IStore {
//		return lstore.NewLocalStore(nil)
//	}
//
//	storetesting.RunStoreTests(t, "LocalStore", factory)
//	storetesting.RunStoreBenchmarks(b, "LocalStore", factory)
package testing
