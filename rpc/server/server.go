package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/ValentinKolb/sybd/lib/db/serializer"
	"github.com/ValentinKolb/sybd/lib/store/lstore"
	"github.com/ValentinKolb/sybd/rpc/common"
	"github.com/ValentinKolb/sybd/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("rpc")

// metricsShutdownTimeout bounds the graceful shutdown of the metrics endpoint
const metricsShutdownTimeout = 5 * time.Second

// NewRPCServer creates a new RPC server.
// It takes a config and the transport to serve on as parameters.
//
// Usage:
//
//	s := server.NewRPCServer(config, tcp.NewTCPServerTransport())
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	}
func NewRPCServer(config common.ServerConfig, transport transport.IRPCServerTransport) *RPCServer {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	return &RPCServer{
		config:    config,
		transport: transport,
		adapter:   NewIStoreServerAdapter(),
		done:      make(chan struct{}),
	}
}

// RPCServer serves one local store over a transport
type RPCServer struct {
	config    common.ServerConfig
	transport transport.IRPCServerTransport
	adapter   IRPCServerAdapter
	store     *lstore.Store
	metrics   *serverMetrics

	addr        net.Addr
	metricsHTTP *http.Server
	metricsAddr net.Addr

	startOnce sync.Once
	closeOnce sync.Once
	done      chan struct{}
	closeErr  error
}

// --------------------------------------------------------------------------
// Lifecycle
// --------------------------------------------------------------------------

// Start initializes the store (loading the snapshot file if configured), binds the
// transport and the optional metrics endpoint and returns the bound address.
// Connections are served in the background until Close is called.
func (s *RPCServer) Start() (net.Addr, error) {
	err := errors.New("server already started")
	s.startOnce.Do(func() {
		err = s.init()
	})
	if err != nil {
		return nil, err
	}
	return s.addr, nil
}

// Serve starts the server and blocks until SIGINT or SIGTERM is received or Close is called.
// On a signal the server shuts down gracefully and writes the snapshot file if configured.
func (s *RPCServer) Serve() error {
	if _, err := s.Start(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		Logger.Infof("Received shutdown signal")
		return s.Close()
	case <-s.done:
		return s.closeErr
	}
}

// Close stops the transport and the metrics endpoint, waits for all connection
// handlers and writes the snapshot file if one is configured.
func (s *RPCServer) Close() error {
	s.closeOnce.Do(func() {
		var errs []error

		if err := s.transport.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			errs = append(errs, fmt.Errorf("failed to close transport: %w", err))
		}

		if s.metricsHTTP != nil {
			ctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
			if err := s.metricsHTTP.Shutdown(ctx); err != nil {
				errs = append(errs, fmt.Errorf("failed to stop metrics endpoint: %w", err))
			}
			cancel()
		}

		if s.store != nil {
			if s.store.SnapshotPath() != "" {
				if err := s.store.SaveSnapshot(); err != nil {
					errs = append(errs, fmt.Errorf("failed to save snapshot: %w", err))
				}
			}
			if err := s.store.Close(); err != nil {
				errs = append(errs, err)
			}
		}

		s.closeErr = errors.Join(errs...)
		close(s.done)
		Logger.Infof("Server stopped")
	})
	return s.closeErr
}

// Addr returns the address the transport is bound to (nil before Start)
func (s *RPCServer) Addr() net.Addr {
	return s.addr
}

// MetricsAddr returns the address of the metrics endpoint (nil if disabled)
func (s *RPCServer) MetricsAddr() net.Addr {
	return s.metricsAddr
}

// Store returns the store served by the server (nil before Start)
func (s *RPCServer) Store() *lstore.Store {
	return s.store
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

func (s *RPCServer) init() error {
	if err := s.config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Init logger
	if err := common.InitLoggers(s.config.LogLevel); err != nil {
		return err
	}

	Logger.Infof("Created RPC Server")
	Logger.Infof("%s", s.config.String())

	if err := s.initStore(); err != nil {
		return err
	}

	s.metrics = newServerMetrics(s.transport.NumConnections)
	if s.config.MetricsEndpoint != "" {
		if err := s.startMetricsEndpoint(); err != nil {
			return err
		}
	}

	// Configure the transport layer
	s.transport.RegisterHandler(s.handle)

	addr, err := s.transport.Listen(s.config)
	if err != nil {
		s.stopMetricsEndpoint()
		return err
	}
	s.addr = addr

	Logger.Infof("sybd setup completed successfully, listening on %s", addr)
	return nil
}

// initStore creates the store and loads the snapshot file if configured.
// A missing snapshot file starts an empty database.
func (s *RPCServer) initStore() error {
	opts := &lstore.Options{}

	if s.config.SnapshotFile != "" {
		ser, err := serializer.ForFormat(s.config.SnapshotFormat, s.config.SnapshotFile)
		if err != nil {
			return err
		}
		opts.SnapshotPath = s.config.SnapshotFile
		opts.Serializer = ser
	}

	st := lstore.NewLocalStore(opts)

	if s.config.SnapshotFile == "" {
		Logger.Infof("No snapshot file configured, the database is not persisted")
		s.store = st
		return nil
	}

	// the store is only kept if the snapshot could be read, so Close never
	// overwrites an unreadable snapshot file with an empty database
	err := st.LoadSnapshot()
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist):
		Logger.Infof("Snapshot file %s does not exist yet, starting with an empty database", s.config.SnapshotFile)
	default:
		return fmt.Errorf("failed to load snapshot: %w", err)
	}
	s.store = st
	return nil
}

// handle is the transport handler: one request is one command line
func (s *RPCServer) handle(req []byte) []byte {
	start := time.Now()
	query := string(req)

	reply, err := s.adapter.Handle(query, s.store)
	verb := verbOf(query)
	s.metrics.observe(verb, start, err)

	if err != nil {
		Logger.Debugf("%s failed: %v", verb, err)
	} else if verb == CmdSave {
		s.metrics.saves.Inc()
	}

	return common.EncodeReply(reply, err)
}

func (s *RPCServer) startMetricsEndpoint() error {
	listener, err := net.Listen("tcp", s.config.MetricsEndpoint)
	if err != nil {
		return fmt.Errorf("failed to bind metrics endpoint: %w", err)
	}
	s.metricsAddr = listener.Addr()

	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		s.metrics.set.WritePrometheus(w)
	})
	s.metricsHTTP = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		Logger.Infof("Serving metrics on http://%s/metrics", listener.Addr())
		if err := s.metricsHTTP.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			Logger.Errorf("Metrics endpoint failed: %v", err)
		}
	}()
	return nil
}

func (s *RPCServer) stopMetricsEndpoint() {
	if s.metricsHTTP != nil {
		s.metricsHTTP.Close()
		s.metricsHTTP = nil
	}
}
