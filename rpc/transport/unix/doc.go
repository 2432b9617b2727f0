// Package unix implements the Unix domain socket transport of sybd for clients
// running on the same machine. The endpoint is the socket path. An existing
// file at that path is removed before binding.
//
// Connection handling is inherited from the base package.
package unix
