package client

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var (
	hsetCmd = &cobra.Command{
		Use:   "hset [table] [key] [value]",
		Short: "Inserts a key into a table (the table is created if needed)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			inserted, err := rpcStore.HSet(args[0], args[1], args[2])
			if err != nil {
				return err
			}
			if inserted {
				fmt.Println("inserted")
			} else {
				fmt.Printf("key '%s' is already in use, value unchanged\n", args[1])
			}
			return nil
		},
	}
	hgetCmd = &cobra.Command{
		Use:   "hget [table] [key]",
		Short: "Gets the value of a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, found, err := rpcStore.HGet(args[0], args[1])
			if err != nil {
				return err
			}
			if !found {
				fmt.Println("(not found)")
				return nil
			}
			fmt.Println(value)
			return nil
		},
	}
	hdelCmd = &cobra.Command{
		Use:   "hdel [table] [key]",
		Short: "Removes a key from a table",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			found, err := rpcStore.HDel(args[0], args[1])
			if err != nil {
				return err
			}
			if !found {
				fmt.Printf("table '%s' not found\n", args[0])
				return nil
			}
			fmt.Println("deleted")
			return nil
		},
	}
	hlenCmd = &cobra.Command{
		Use:   "hlen [table]",
		Short: "Prints the number of keys in a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, found, err := rpcStore.HLen(args[0])
			if err != nil {
				return err
			}
			if !found {
				fmt.Printf("table '%s' not found\n", args[0])
				return nil
			}
			fmt.Println(n)
			return nil
		},
	}
	spushCmd = &cobra.Command{
		Use:   "spush [value]",
		Short: "Pushes a value onto the stack",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rpcStore.SPush(args[0]); err != nil {
				return err
			}
			fmt.Println("pushed")
			return nil
		},
	}
	spopCmd = &cobra.Command{
		Use:   "spop",
		Short: "Pops the top of the stack",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := rpcStore.SPop()
			if err != nil {
				return err
			}
			fmt.Println(value)
			return nil
		},
	}
	qpushCmd = &cobra.Command{
		Use:   "qpush [value]",
		Short: "Appends a value to the queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rpcStore.QPush(args[0]); err != nil {
				return err
			}
			fmt.Println("pushed")
			return nil
		},
	}
	qpopCmd = &cobra.Command{
		Use:   "qpop",
		Short: "Removes the head of the queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := rpcStore.QPop()
			if err != nil {
				return err
			}
			fmt.Println(value)
			return nil
		},
	}
	saddCmd = &cobra.Command{
		Use:   "sadd [count]",
		Short: "Adds count random values in [1,100) to the set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("count must be a number: %w", err)
			}
			if err := rpcStore.SAdd(count); err != nil {
				return err
			}
			fmt.Println("added")
			return nil
		},
	}
	sremCmd = &cobra.Command{
		Use:   "srem [value]",
		Short: "Removes a value from the set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseInt(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("value must be a 32-bit number: %w", err)
			}
			found, err := rpcStore.SRem(int32(value))
			if err != nil {
				return err
			}
			if !found {
				fmt.Println("(not found)")
				return nil
			}
			fmt.Println("removed")
			return nil
		},
	}
	smembersCmd = &cobra.Command{
		Use:   "smembers",
		Short: "Lists the members of the set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			members, err := rpcStore.SMembers()
			if err != nil {
				return err
			}
			if len(members) == 0 {
				fmt.Println("(empty set)")
				return nil
			}
			for _, m := range members {
				fmt.Println(m)
			}
			return nil
		},
	}
	pingCmd = &cobra.Command{
		Use:   "ping",
		Short: "Checks that the server is alive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rpcStore.Ping(); err != nil {
				return err
			}
			fmt.Println("PONG")
			return nil
		},
	}
	saveCmd = &cobra.Command{
		Use:   "save",
		Short: "Asks the server to write its snapshot file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rpcStore.Save(); err != nil {
				return err
			}
			fmt.Println("saved")
			return nil
		},
	}
	execCmd = &cobra.Command{
		Use:   "exec [query...]",
		Short: "Sends a raw command line and prints the reply unchanged",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reply, err := rpcStore.Execute(strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Println(reply)
			return nil
		},
	}

	storeCommands = []*cobra.Command{
		hsetCmd, hgetCmd, hdelCmd, hlenCmd,
		spushCmd, spopCmd, qpushCmd, qpopCmd,
		saddCmd, sremCmd, smembersCmd,
		pingCmd, saveCmd,
	}
)
