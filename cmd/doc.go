// Package cmd implements the command-line interface of sybd. It provides a
// hierarchical command structure for running the server, running one-shot
// queries against a snapshot file and talking to a server as a client.
//
// The package is organized into several subpackages:
//
//   - serve: starts the sybd server
//   - run: executes a single query against a snapshot file and writes it back
//   - client: commands, an interactive shell and a load generator for a running server
//   - util: shared utilities for command-line processing and configuration (internal use)
//
// Every flag can also be set with an environment variable SYBD_<FLAG> (dashes
// become underscores, e.g. SYBD_LOG_LEVEL=debug). Variables are also read from
// .env and .env.local in the working directory.
//
// See sybd -help for a list of all commands.
package cmd
