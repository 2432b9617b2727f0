// Package rpc exposes the sybd store over a socket.
//
// The package is organized into several subpackages:
//
//   - common: configuration structures, logging setup and the helpers for the
//     line based wire protocol (a request is one command line, a reply is the
//     command result terminated by a newline or "ERR <message>").
//
//   - transport: network communication abstractions with pluggable
//     implementations (TCP and Unix sockets). The base subpackage contains the
//     connection loop shared by all of them.
//
//   - server: the RPC server that owns a local store, answers requests, keeps
//     metrics and writes the snapshot on shutdown.
//
//   - client: an RPC client that implements the store interface, so
//     applications can use a remote store like a local one.
package rpc
