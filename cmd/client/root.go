package client

import (
	"github.com/ValentinKolb/sybd/cmd/util"
	"github.com/ValentinKolb/sybd/rpc/client"
	"github.com/spf13/cobra"
)

var (
	rpcStore *client.RPCStore

	// ClientCommands represents the client command group
	ClientCommands = &cobra.Command{
		Use:               "client",
		Short:             "Talk to a running sybd server",
		PersistentPreRunE: setupClient,
		PersistentPostRun: closeClient,
	}
)

func init() {
	// Add common RPC flags to the client command
	util.SetupRPCClientFlags(ClientCommands)

	// Add subcommands
	for _, c := range storeCommands {
		ClientCommands.AddCommand(c)
	}
	ClientCommands.AddCommand(execCmd)
	ClientCommands.AddCommand(replCmd)
	ClientCommands.AddCommand(perfTestCmd)
}

// setupClient initializes the RPC store client
func setupClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}
	if err := util.InitLogging(); err != nil {
		return err
	}

	// Get client configuration and transport
	config, err := util.GetClientConfig()
	if err != nil {
		return err
	}

	t, err := util.GetClientTransport(config.Transport)
	if err != nil {
		return err
	}

	// Create the client
	rpcStore, err = client.NewRPCStore(*config, t)
	return err
}

func closeClient(_ *cobra.Command, _ []string) {
	if rpcStore != nil {
		rpcStore.Close()
	}
}
