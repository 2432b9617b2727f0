package client

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ValentinKolb/sybd/lib/db"
	"github.com/ValentinKolb/sybd/lib/store"
	"github.com/ValentinKolb/sybd/rpc/common"
	"github.com/ValentinKolb/sybd/rpc/transport"
)

// NewRPCStore creates a new RPC store
// The function takes a config and a transport as parameters and connects the transport.
// The returned store implements store.IStore.
func NewRPCStore(config common.ClientConfig, transport transport.IRPCClientTransport) (*RPCStore, error) {
	// Connect the transport
	if err := transport.Connect(config); err != nil {
		return nil, err
	}

	return &RPCStore{
		config:    config,
		transport: transport,
	}, nil
}

// RPCStore is the remote counterpart of the local store. Next to the generic
// Execute it offers typed helpers for every command.
type RPCStore struct {
	config    common.ClientConfig
	transport transport.IRPCClientTransport
}

// --------------------------------------------------------------------------
// Interface Methods (docu see the store package in interface.go)
// --------------------------------------------------------------------------

func (c *RPCStore) Execute(query string) (string, error) {
	if strings.ContainsAny(query, "\r\n") {
		return "", store.NewError(store.RetCProtocolError, "query must be a single line")
	}

	// the server reads one command per read, a longer request would be split
	req := common.EncodeRequest(query)
	if limit := c.config.RequestLimit(); len(req) > limit {
		return "", store.NewError(store.RetCProtocolError, fmt.Sprintf("request of %d bytes exceeds the limit of %d bytes", len(req), limit))
	}
	return invokeRPCRequest(req, c.transport)
}

func (c *RPCStore) Close() error {
	return c.transport.Close()
}

// --------------------------------------------------------------------------
// Typed Commands
// --------------------------------------------------------------------------

// exec joins the tokens to a command line. Every argument must be a single token.
func (c *RPCStore) exec(verb string, args ...string) (string, error) {
	for _, a := range args {
		if !validToken(a) {
			return "", store.NewError(store.RetCProtocolError, fmt.Sprintf("invalid argument %q: arguments must be non-empty and free of whitespace", a))
		}
	}
	return c.Execute(strings.Join(append([]string{verb}, args...), " "))
}

// expectOK runs a command that replies "OK" on success
func (c *RPCStore) expectOK(verb string, args ...string) error {
	reply, err := c.exec(verb, args...)
	if err != nil {
		return err
	}
	if reply != db.ReplyOK {
		return store.NewError(store.RetCInternalError, fmt.Sprintf("unexpected reply to %s: %q", verb, reply))
	}
	return nil
}

// Ping checks that the server is alive
func (c *RPCStore) Ping() error {
	reply, err := c.exec("PING")
	if err != nil {
		return err
	}
	if reply != db.ReplyPong {
		return store.NewError(store.RetCInternalError, fmt.Sprintf("unexpected reply to PING: %q", reply))
	}
	return nil
}

// Save asks the server to write its snapshot file
func (c *RPCStore) Save() error {
	return c.expectOK("SAVE")
}

// HSet inserts key into table. inserted is false if the key is already in use,
// in which case the stored value is unchanged.
func (c *RPCStore) HSet(table, key, value string) (inserted bool, err error) {
	reply, err := c.exec("HSET", table, key, value)
	if err != nil {
		return false, err
	}
	return !strings.Contains(reply, "already in use"), nil
}

// HGet returns the value of key in table. found is false if the table or the key does not exist.
func (c *RPCStore) HGet(table, key string) (value string, found bool, err error) {
	reply, err := c.exec("HGET", table, key)
	if err != nil {
		return "", false, err
	}
	if IsMiss(reply) {
		return "", false, nil
	}
	return reply, true, nil
}

// HDel removes key from table. found is false if the table does not exist.
func (c *RPCStore) HDel(table, key string) (found bool, err error) {
	reply, err := c.exec("HDEL", table, key)
	if err != nil {
		return false, err
	}
	return !IsMiss(reply), nil
}

// HLen returns the number of keys in table. found is false if the table does not exist.
func (c *RPCStore) HLen(table string) (n int, found bool, err error) {
	reply, err := c.exec("HLEN", table)
	if err != nil {
		return 0, false, err
	}
	if IsMiss(reply) {
		return 0, false, nil
	}
	n, err = strconv.Atoi(reply)
	if err != nil {
		return 0, false, store.WrapError(store.RetCInternalError, err)
	}
	return n, true, nil
}

// SPush pushes value onto the stack
func (c *RPCStore) SPush(value string) error {
	return c.expectOK("SPUSH", value)
}

// SPop pops the top of the stack. An empty stack returns "".
func (c *RPCStore) SPop() (string, error) {
	return c.exec("SPOP")
}

// QPush appends value to the queue
func (c *RPCStore) QPush(value string) error {
	return c.expectOK("QPUSH", value)
}

// QPop removes the head of the queue. An empty queue returns "".
func (c *RPCStore) QPop() (string, error) {
	return c.exec("QPOP")
}

// SAdd adds count random values in [1,100) to the set
func (c *RPCStore) SAdd(count int) error {
	return c.expectOK("SADD", strconv.Itoa(count))
}

// SRem removes value from the set. found is false if the value was not in the set.
func (c *RPCStore) SRem(value int32) (found bool, err error) {
	reply, err := c.exec("SREM", strconv.FormatInt(int64(value), 10))
	if err != nil {
		return false, err
	}
	return !IsMiss(reply), nil
}

// SMembers returns the members of the set in ascending order
func (c *RPCStore) SMembers() ([]int32, error) {
	reply, err := c.exec("SISMEMBER")
	if err != nil {
		return nil, err
	}
	if reply == db.ReplyEmptySet {
		return []int32{}, nil
	}

	lines := strings.Split(reply, "\n")
	members := make([]int32, 0, len(lines))
	for _, line := range lines {
		raw, ok := strings.CutPrefix(line, "Value: ")
		if !ok {
			return nil, store.NewError(store.RetCInternalError, fmt.Sprintf("unexpected set listing line %q", line))
		}
		v, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return nil, store.WrapError(store.RetCInternalError, err)
		}
		members = append(members, int32(v))
	}
	return members, nil
}
