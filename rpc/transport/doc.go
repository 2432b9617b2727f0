// Package transport defines the interfaces between the sybd server and client
// and the socket layer below them.
//
// A server transport accepts connections and calls a ServerHandleFunc for
// every command read from a connection. A client transport sends a request
// over one of its connections and returns the raw reply.
//
// Implementations:
//
//   - base: the connection loop and the request/response client shared by all socket types
//   - tcp: TCP sockets (default)
//   - unix: Unix domain sockets for clients on the same host
package transport
