// Package base provides the socket independent part of the sybd transport
// layer. Protocol specific packages (tcp, unix) only supply a connector that
// creates listeners and connections.
//
// Server:
//
//   - One goroutine per accepted connection, no upper bound.
//   - Every socket read (up to the configured buffer size) is treated as one
//     complete command and passed to the registered handler. The reply is
//     written back before the next read.
//   - Read buffers are taken from a sync.Pool.
//   - Accept errors are logged and the loop continues. Closing the listener
//     ends the loop.
//   - Open connections are tracked in an xsync.MapOf so Close can shut them
//     down and wait for their handlers.
//   - An optional deadline (TimeoutSecond) applies to every read and write.
//
// Client:
//
//   - A fixed set of connections (ConnectionsPerEndpoint per endpoint) used
//     round robin.
//   - The line protocol carries no request ids, so each connection serves one
//     request at a time under its own mutex.
//   - A reply is read until it ends with a newline.
//   - A connection that fails is dropped and re-established by the next
//     request on it. There are no retries.
package base
