package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/sybd/cmd/client"
	"github.com/ValentinKolb/sybd/cmd/run"
	"github.com/ValentinKolb/sybd/cmd/serve"
	"github.com/ValentinKolb/sybd/cmd/util"
	"github.com/ValentinKolb/sybd/rpc/common"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "sybd",
		Short: "small in-memory key-value and collection store",
		Long: fmt.Sprintf(`sybd (v%s)

A small in-memory store with a set, a stack, a queue and named hash tables,
served over a plain text line protocol or queried one-shot against a
snapshot file.`, Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of sybd",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("sybd v%s\n", Version)
		},
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(run.RunCmd)
	RootCmd.AddCommand(client.ClientCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "log-level"
	RootCmd.PersistentFlags().String(key, common.DefaultLogLevel, util.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
