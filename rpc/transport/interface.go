package transport

import (
	"net"

	"github.com/ValentinKolb/sybd/rpc/common"
)

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// ServerHandleFunc is a function type that handles incoming requests.
// It is called by a server transport for every command read from a connection
// and returns the bytes written back. req is only valid during the call.
type ServerHandleFunc func(req []byte) (resp []byte)

// IRPCServerTransport is the interface for the server side transport layer
type IRPCServerTransport interface {
	// RegisterHandler registers the handler called for every request.
	// It must be called before Listen.
	RegisterHandler(handler ServerHandleFunc)
	// Listen binds the configured endpoint and serves connections in the background.
	// It returns the bound address or the bind error.
	Listen(config common.ServerConfig) (net.Addr, error)
	// NumConnections returns the number of currently open connections
	NumConnections() int
	// Close stops accepting, closes all open connections and waits for their handlers to return
	Close() error
}

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// IRPCClientTransport is the interface for the client side transport layer
type IRPCClientTransport interface {
	// Connect initializes the transport with the given configuration
	Connect(config common.ClientConfig) error
	// Send sends a request to the server and returns the raw response
	Send(req []byte) (resp []byte, err error)
	// Close closes all connections
	Close() error
}
