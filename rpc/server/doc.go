// Package server implements the sybd server: a local store served over a
// transport with the line protocol of the common package.
//
// Key Components:
//
//   - IRPCServerAdapter: translates a received command line into a call on the
//     store. The default adapter forwards all commands to store.IStore.Execute
//     and handles the server command SAVE itself.
//
//   - RPCServer: owns the store, the transport and the metrics. Start binds
//     and serves in the background, Serve additionally blocks until SIGINT or
//     SIGTERM and then shuts down gracefully.
//
// Persistence:
//
//	Without a snapshot file the server is ephemeral and SAVE replies with an
//	error. With a snapshot file the database is loaded on start (a missing
//	file starts an empty database, an unreadable one is a startup error) and
//	written on SAVE and on shutdown.
//
// Metrics (VictoriaMetrics, served on /metrics if MetricsEndpoint is set):
//
//	sybd_commands_total{verb="..."}   executed commands per verb
//	sybd_command_errors_total         commands answered with an error line
//	sybd_command_duration_seconds     execution time histogram
//	sybd_connections_open             currently open connections
//	sybd_snapshot_saves_total         successful SAVE commands
//
// Usage Example:
//
//	config := common.DefaultServerConfig()
//	config.SnapshotFile = "sybd.json"
//
//	s := server.NewRPCServer(config, tcp.NewTCPServerTransport())
//	if err := s.Serve(); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
package server
