// Package tcp implements the TCP socket transport of sybd. It provides the
// connectors for the base package, which contains the connection loop and the
// client logic.
//
// Socket options taken from common.ServerConfig:
//
//   - TCPNoDelay: disables Nagle's algorithm on accepted connections
//   - TCPKeepAlive: enables keep-alive probes (30s period)
//   - ReuseAddr: sets SO_REUSEADDR on the listener (unix platforms)
//
// Client connections always disable Nagle's algorithm.
package tcp
