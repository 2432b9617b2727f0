// Package common provides the configuration, logging and wire helpers shared
// by the sybd server, client and command line.
//
// Key Components:
//
//   - ServerConfig / ClientConfig: configuration of the server and the remote
//     client, both with a String method rendering the settings as a table.
//
//   - Logger: a zap backed implementation of dragonboats logger.ILogger.
//     InitLoggers installs it as the logger factory and sets the level of all
//     named sybd loggers (db, store, transport, rpc, client, cli).
//
//   - Wire helpers: EncodeRequest, EncodeReply and DecodeReply implement the
//     line protocol. A request is one command line, a reply is the store reply
//     followed by a newline, protocol errors are sent as "ERR <message>".
package common
