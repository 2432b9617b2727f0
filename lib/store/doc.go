// Package store provides the interface through which commands are executed
// against a sybd database, independent of whether the database lives in the
// same process or behind a socket.
//
// Key Components:
//
//   - IStore Interface: Execute runs one command line and returns the textual
//     reply. Logical misses (unknown table, key or set value) are part of the
//     reply and are not errors.
//
//   - Error System: Errors returned by a store are of type *Error and carry a
//     RetCode. Local stores wrap the original error, so errors.Is works with the
//     sentinel errors of the db package. Remote stores rebuild the error from the
//     error reply of the server.
//
// Implementations:
//
//	- Local Store (lstore): owns one db.Database behind a single mutex and
//	  handles snapshot files. Available in the
//	  "github.com/ValentinKolb/sybd/lib/store/lstore" package.
//
//	- Remote Store (rpc/client): sends every command to a sybd server over a
//	  tcp or unix socket. Available in the
//	  "github.com/ValentinKolb/sybd/rpc/client" package.
//
// The testing package (github.com/ValentinKolb/sybd/lib/store/testing) runs the
// same test suite against every implementation.
package store
