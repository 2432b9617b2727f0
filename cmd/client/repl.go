package client

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ValentinKolb/sybd/lib/db"
	"github.com/ValentinKolb/sybd/lib/store"
	"github.com/ValentinKolb/sybd/rpc/server"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

const (
	// historyFileEnv overrides the location of the history file ("/dev/null" disables it)
	historyFileEnv     = "SYBD_HISTFILE"
	historyFileDefault = ".sybd_history"
)

var (
	replCmd = &cobra.Command{
		Use:   "repl",
		Short: "Interactive shell for a sybd server",
		Long: `Starts an interactive shell. Every line is sent to the server as one command and the reply is printed unchanged. Type 'quit' or 'exit' (or press Ctrl-D) to leave.

If stdin is not a terminal, the lines are read without prompt, e.g. printf 'PING\nHGET links abc\n' | sybd client repl`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
				return interactive(rpcStore, cmd.OutOrStdout())
			}
			return runLines(os.Stdin, cmd.OutOrStdout(), rpcStore)
		},
	}
)

// runLines executes every non-empty line of r against s and writes the replies to w
func runLines(r io.Reader, w io.Writer, s store.IStore) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if isQuit(line) {
			return nil
		}
		printReply(w, s, line)
	}
	return scanner.Err()
}

// interactive runs the shell with line editing, completion and history
func interactive(s store.IStore, w io.Writer) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(completeVerb)

	historyFile := historyPath()
	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}
	defer func() {
		if historyFile == "" {
			return
		}
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Fprintln(w, "Connected. Type 'quit' to exit.")
	for {
		input, err := line.Prompt("sybd> ")
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err == io.EOF {
			fmt.Fprintln(w)
			return nil
		}
		if err != nil {
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		if isQuit(input) {
			return nil
		}
		printReply(w, s, input)
	}
}

func printReply(w io.Writer, s store.IStore, query string) {
	reply, err := s.Execute(query)
	if err != nil {
		var storeErr *store.Error
		if errors.As(err, &storeErr) {
			fmt.Fprintf(w, "(error) %s\n", storeErr.Msg)
		} else {
			fmt.Fprintf(w, "(error) %v\n", err)
		}
		return
	}
	if reply == "" {
		fmt.Fprintln(w, "(empty)")
		return
	}
	fmt.Fprintln(w, reply)
}

func isQuit(line string) bool {
	return strings.EqualFold(line, "quit") || strings.EqualFold(line, "exit")
}

// completeVerb completes the command verb (the first word)
func completeVerb(line string) []string {
	if strings.ContainsAny(line, " \t") {
		return nil
	}
	verbs := append(db.Commands(), server.CmdSave)
	sort.Strings(verbs)

	var out []string
	prefix := strings.ToUpper(line)
	for _, v := range verbs {
		if strings.HasPrefix(v, prefix) {
			out = append(out, v)
		}
	}
	return out
}

// historyPath returns the history file location or "" if history should not be persisted
func historyPath() string {
	if path := os.Getenv(historyFileEnv); path != "" {
		if path == os.DevNull {
			return ""
		}
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFileDefault)
}
