package serve

import (
	"fmt"

	cmdUtil "github.com/ValentinKolb/sybd/cmd/util"
	"github.com/ValentinKolb/sybd/lib/db/serializer"
	"github.com/ValentinKolb/sybd/rpc/common"
	"github.com/ValentinKolb/sybd/rpc/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:   "serve",
		Short: "Start the sybd server",
		Long: `Start the sybd server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is SYBD_<flag> (e.g. SYBD_TIMEOUT=15).

Without --file the server is ephemeral: all data is lost on shutdown and SAVE is rejected. With --file the snapshot is loaded on start (a missing file starts an empty database) and written on SAVE and on SIGINT/SIGTERM.`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	defaults := common.DefaultServerConfig()

	// add flags
	key := "endpoint"
	ServeCmd.PersistentFlags().String(key, defaults.Endpoint, cmdUtil.WrapString("The address on which the server will listen (host:port for tcp, socket path for unix)"))

	key = "transport"
	ServeCmd.PersistentFlags().String(key, string(defaults.Transport), cmdUtil.WrapString("The transport to serve on (tcp, unix)"))

	key = "timeout"
	ServeCmd.PersistentFlags().Int64(key, defaults.TimeoutSecond, cmdUtil.WrapString("Read/write deadline of a connection in seconds (0 = none)"))

	key = "read-buffer"
	ServeCmd.PersistentFlags().Int(key, defaults.ReadBufferSize, cmdUtil.WrapString("Size of the read buffer of a connection in bytes. One read is one command, so this bounds the length of a command"))

	key = "tcp-nodelay"
	ServeCmd.PersistentFlags().Bool(key, defaults.TCPNoDelay, cmdUtil.WrapString("Whether to enable TCP_NODELAY on accepted connections (tcp only)"))

	key = "tcp-keepalive"
	ServeCmd.PersistentFlags().Bool(key, defaults.TCPKeepAlive, cmdUtil.WrapString("Whether to enable TCP keep-alive on accepted connections (tcp only)"))

	key = "reuse-addr"
	ServeCmd.PersistentFlags().Bool(key, defaults.ReuseAddr, cmdUtil.WrapString("Whether to set SO_REUSEADDR on the listener (tcp only)"))

	key = "file"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Snapshot file to load on start and write on SAVE and shutdown (empty = ephemeral)"))

	key = "format"
	ServeCmd.PersistentFlags().String(key, defaults.SnapshotFormat, cmdUtil.WrapString("Format of the snapshot file (json, yaml, auto = by file extension)"))

	key = "metrics-endpoint"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Address of the Prometheus metrics endpoint (e.g. 127.0.0.1:9100, empty = disabled)"))
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}

	t, err := common.ParseTransportType(viper.GetString("transport"))
	if err != nil {
		return err
	}

	// read the configuration from the command line flags and environment variables
	serveCmdConfig.Endpoint = viper.GetString("endpoint")
	serveCmdConfig.Transport = t
	serveCmdConfig.TimeoutSecond = viper.GetInt64("timeout")
	serveCmdConfig.ReadBufferSize = viper.GetInt("read-buffer")
	serveCmdConfig.TCPNoDelay = viper.GetBool("tcp-nodelay")
	serveCmdConfig.TCPKeepAlive = viper.GetBool("tcp-keepalive")
	serveCmdConfig.ReuseAddr = viper.GetBool("reuse-addr")
	serveCmdConfig.SnapshotFile = viper.GetString("file")
	serveCmdConfig.SnapshotFormat = viper.GetString("format")
	serveCmdConfig.MetricsEndpoint = viper.GetString("metrics-endpoint")
	serveCmdConfig.LogLevel = viper.GetString("log-level")

	// fail before binding if the format is unknown
	if serveCmdConfig.SnapshotFile != "" {
		if _, err := serializer.ForFormat(serveCmdConfig.SnapshotFormat, serveCmdConfig.SnapshotFile); err != nil {
			return err
		}
	}

	if err := serveCmdConfig.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// run starts the sybd server and blocks until it is shut down
func run(_ *cobra.Command, _ []string) error {
	t, err := cmdUtil.GetServerTransport(serveCmdConfig.Transport)
	if err != nil {
		return err
	}

	serv := server.NewRPCServer(*serveCmdConfig, t)
	return serv.Serve()
}
