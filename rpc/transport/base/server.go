package base

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/sybd/rpc/common"
	"github.com/ValentinKolb/sybd/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var Logger = logger.GetLogger("transport")

// acceptBackoff is the pause after a failed accept, so a persistent error
// (e.g. too many open files) does not spin the accept loop
const acceptBackoff = 10 * time.Millisecond

// -----------------------------------------------------------
// Interface Definitions for dependency injection
// -----------------------------------------------------------

// IServerConnector defines the interface for transport-specific server operations
type IServerConnector interface {
	// Listen creates a listener and returns it
	Listen(config common.ServerConfig) (net.Listener, error)

	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string

	// UpgradeConnection applies protocol-specific settings to an accepted connection
	UpgradeConnection(conn net.Conn, config common.ServerConfig) error
}

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

// serverTransport implements the core server transport functionality
type serverTransport struct {
	connector  IServerConnector
	handler    transport.ServerHandleFunc
	config     common.ServerConfig
	listener   net.Listener
	bufferPool *sync.Pool

	conns      *xsync.MapOf[uint64, net.Conn] // open connections by id
	nextConnID atomic.Uint64
	closing    atomic.Bool
	closeOnce  sync.Once
	wg         sync.WaitGroup // accept loop + connection handlers
}

// -----------------------------------------------------------
// Transport Factory Method (used for tcp, unix, etc.)
// -----------------------------------------------------------

// NewBaseServerTransport creates a new base server transport for the given connector
func NewBaseServerTransport(connector IServerConnector) transport.IRPCServerTransport {
	return &serverTransport{
		connector: connector,
		conns:     xsync.NewMapOf[uint64, net.Conn](),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCServerTransport)
// --------------------------------------------------------------------------

func (t *serverTransport) RegisterHandler(handler transport.ServerHandleFunc) {
	t.handler = handler
}

func (t *serverTransport) Listen(config common.ServerConfig) (net.Addr, error) {
	if t.handler == nil {
		return nil, fmt.Errorf("no handler registered")
	}

	t.config = config

	bufferSize := config.ReadBufferSize
	if bufferSize <= 0 {
		bufferSize = common.DefaultServerBufferSize
	}
	t.bufferPool = &sync.Pool{
		New: func() interface{} {
			buf := make([]byte, bufferSize)
			return &buf
		},
	}

	// Create listener using the connector
	listener, err := t.connector.Listen(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create listener: %w", err)
	}
	t.listener = listener

	Logger.Infof("Starting %s server on %s (read buffer %d bytes)",
		t.connector.GetName(), listener.Addr(), bufferSize)

	t.wg.Add(1)
	go t.acceptLoop()

	return listener.Addr(), nil
}

func (t *serverTransport) NumConnections() int {
	return t.conns.Size()
}

func (t *serverTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		t.closing.Store(true)

		if t.listener != nil {
			err = t.listener.Close()
		}

		// unblock all handlers waiting in Read
		t.conns.Range(func(_ uint64, conn net.Conn) bool {
			conn.Close()
			return true
		})

		t.wg.Wait()
		Logger.Infof("%s server stopped", t.connector.GetName())
	})
	return err
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// acceptLoop accepts connections until the listener is closed
func (t *serverTransport) acceptLoop() {
	defer t.wg.Done()

	for {
		conn, err := t.listener.Accept()
		if err != nil {
			if t.closing.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			Logger.Errorf("Accept error: %v", err)
			time.Sleep(acceptBackoff)
			continue
		}

		if err := t.connector.UpgradeConnection(conn, t.config); err != nil {
			Logger.Warningf("Failed to upgrade connection from %s: %v", conn.RemoteAddr(), err)
		}

		id := t.nextConnID.Add(1)
		t.conns.Store(id, conn)

		// Close may have ranged over the registry before this connection was stored
		if t.closing.Load() {
			t.conns.Delete(id)
			conn.Close()
			return
		}

		// Handle the connection in a goroutine
		t.wg.Add(1)
		go t.handleConnection(id, conn)
	}
}

// handleConnection serves one connection: every read is treated as one command
func (t *serverTransport) handleConnection(id uint64, conn net.Conn) {
	defer func() {
		t.conns.Delete(id)
		conn.Close()
		t.wg.Done()
	}()

	remote := conn.RemoteAddr()
	Logger.Debugf("Connection %d opened (%s)", id, remote)

	// Timeout in seconds
	timeout := time.Duration(t.config.TimeoutSecond) * time.Second

	// Get a buffer from the pool
	bufPtr := t.bufferPool.Get().(*[]byte)
	defer t.bufferPool.Put(bufPtr)
	buf := *bufPtr

	for {
		if timeout > 0 {
			if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
				Logger.Errorf("Failed to set deadline on connection %d: %v", id, err)
				return
			}
		}

		n, err := conn.Read(buf)

		// data returned together with an error is still a command
		if n > 0 {
			resp := t.handler(buf[:n])
			if _, werr := conn.Write(resp); werr != nil {
				if !t.closing.Load() {
					Logger.Errorf("Failed to write response on connection %d: %v", id, werr)
				}
				return
			}
		}

		if err != nil {
			switch {
			// Case EOF: Connection closed by client
			case err == io.EOF:
				Logger.Debugf("Connection %d closed by client (%s)", id, remote)
			// Case shutdown: the connection was closed by Close
			case t.closing.Load():
			default:
				Logger.Warningf("Connection %d (%s): %v", id, remote, err)
			}
			return
		}
	}
}
