package run

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	cmdUtil "github.com/ValentinKolb/sybd/cmd/util"
	"github.com/ValentinKolb/sybd/lib/db/serializer"
	"github.com/ValentinKolb/sybd/lib/store/lstore"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Logger = logger.GetLogger("cli")

var (
	RunCmd = &cobra.Command{
		Use:   "run [query]",
		Short: "Execute one query against a snapshot file",
		Long: `Load the snapshot file, execute a single query and write the database back to the same file.

The query is taken from --query or from the positional arguments (e.g. sybd run --file db.json HSET links abc https://example.com).
A snapshot that cannot be loaded is logged and an empty database is used instead. Errors of the query and of writing the snapshot are logged; the command still exits with status 0.`,
		PreRunE: processConfig,
		RunE:    run,
	}
	runFile   string
	runFormat string
	runQuery  string
)

func init() {
	key := "file"
	RunCmd.Flags().String(key, "", cmdUtil.WrapString("The snapshot file to load and write back (required)"))

	key = "query"
	RunCmd.Flags().String(key, "", cmdUtil.WrapString("The query to execute (alternatively pass it as arguments)"))

	key = "format"
	RunCmd.Flags().String(key, "auto", cmdUtil.WrapString("Format of the snapshot file (json, yaml, auto = by file extension)"))
}

func processConfig(cmd *cobra.Command, args []string) error {
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}
	if err := cmdUtil.InitLogging(); err != nil {
		return err
	}

	runFile = viper.GetString("file")
	runFormat = viper.GetString("format")
	runQuery = viper.GetString("query")

	if runFile == "" {
		return fmt.Errorf("--file is required")
	}
	if runQuery != "" && len(args) > 0 {
		return fmt.Errorf("the query must be given either with --query or as arguments, not both")
	}
	if runQuery == "" {
		runQuery = strings.Join(args, " ")
	}
	if strings.TrimSpace(runQuery) == "" {
		return fmt.Errorf("no query given")
	}
	return nil
}

func run(cmd *cobra.Command, _ []string) error {
	ser, err := serializer.ForFormat(runFormat, runFile)
	if err != nil {
		return err
	}

	s := lstore.NewLocalStore(&lstore.Options{
		SnapshotPath: runFile,
		Serializer:   ser,
	})
	defer s.Close()

	// a missing or broken snapshot is not fatal
	if err := s.LoadSnapshot(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			Logger.Infof("Snapshot file %s does not exist, starting with an empty database", runFile)
		} else {
			Logger.Errorf("Error loading database: %v", err)
		}
	}

	reply, err := s.Execute(runQuery)
	if err != nil {
		Logger.Errorf("Error executing query: %v", err)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Result: %s\n", reply)
	}

	if err := s.SaveSnapshot(); err != nil {
		Logger.Errorf("Error saving database: %v", err)
	}
	return nil
}
