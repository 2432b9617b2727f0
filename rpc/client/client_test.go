package client

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ValentinKolb/sybd/lib/store"
	storetesting "github.com/ValentinKolb/sybd/lib/store/testing"
	"github.com/ValentinKolb/sybd/rpc/common"
	"github.com/ValentinKolb/sybd/rpc/server"
	"github.com/ValentinKolb/sybd/rpc/transport/tcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serverStore closes its server together with the client
type serverStore struct {
	*RPCStore
	srv *server.RPCServer
}

func (s *serverStore) Close() error {
	return errors.Join(s.RPCStore.Close(), s.srv.Close())
}

func newServerStore(t testing.TB, cfg common.ServerConfig) *serverStore {
	t.Helper()
	return newServerStoreWithClient(t, cfg, common.DefaultClientConfig())
}

// newServerStoreWithClient starts a server and connects a client with clientCfg to it
func newServerStoreWithClient(t testing.TB, cfg common.ServerConfig, clientCfg common.ClientConfig) *serverStore {
	t.Helper()

	cfg.Endpoint = "127.0.0.1:0"
	cfg.LogLevel = "error"

	srv := server.NewRPCServer(cfg, tcp.NewTCPServerTransport())
	addr, err := srv.Start()
	require.NoError(t, err)

	clientCfg.Endpoints = []string{addr.String()}
	clientCfg.ConnectionsPerEndpoint = 4

	c, err := NewRPCStore(clientCfg, tcp.NewTCPClientTransport())
	if err != nil {
		srv.Close()
		require.NoError(t, err)
	}

	s := &serverStore{RPCStore: c, srv: srv}
	t.Cleanup(func() { s.Close() })
	return s
}

func Test(t *testing.T) {
	storetesting.RunStoreTests(t, "RPCStore", func() store.IStore {
		return newServerStore(t, common.DefaultServerConfig())
	})
}

func Benchmark(b *testing.B) {
	storetesting.RunStoreBenchmarks(b, "RPCStore", func() store.IStore {
		return newServerStore(b, common.DefaultServerConfig())
	})
}

func TestTypedCommands(t *testing.T) {
	c := newServerStore(t, common.DefaultServerConfig())

	require.NoError(t, c.Ping())

	inserted, err := c.HSet("links", "abc", "https://example.com")
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = c.HSet("links", "abc", "https://other.example.com")
	require.NoError(t, err)
	assert.False(t, inserted)

	value, found, err := c.HGet("links", "abc")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "https://example.com", value)

	_, found, err = c.HGet("links", "nope")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = c.HGet("nope", "abc")
	require.NoError(t, err)
	assert.False(t, found)

	n, found, err := c.HLen("links")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 1, n)

	found, err = c.HDel("links", "abc")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = c.HDel("nope", "abc")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.SPush("a"))
	require.NoError(t, c.SPush("b"))
	v, err := c.SPop()
	require.NoError(t, err)
	assert.Equal(t, "b", v)

	require.NoError(t, c.QPush("a"))
	require.NoError(t, c.QPush("b"))
	v, err = c.QPop()
	require.NoError(t, err)
	assert.Equal(t, "a", v)

	members, err := c.SMembers()
	require.NoError(t, err)
	assert.Empty(t, members)

	require.NoError(t, c.SAdd(3))
	members, err = c.SMembers()
	require.NoError(t, err)
	require.Len(t, members, 3)

	found, err = c.SRem(members[0])
	require.NoError(t, err)
	assert.True(t, found)

	found, err = c.SRem(members[0])
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidArguments(t *testing.T) {
	c := newServerStore(t, common.DefaultServerConfig())

	_, err := c.HSet("links", "a b", "v")
	assert.Equal(t, store.RetCProtocolError, store.CodeOf(err))

	err = c.SPush("")
	assert.Equal(t, store.RetCProtocolError, store.CodeOf(err))

	_, err = c.Execute("PING\nPING")
	assert.Equal(t, store.RetCProtocolError, store.CodeOf(err))
}

func TestRequestLimit(t *testing.T) {
	c := newServerStore(t, common.DefaultServerConfig())

	// longer than one server read: rejected before anything is sent
	long := strings.Repeat("v", 1500)
	inserted, err := c.HSet("links", "abc", long)
	require.Error(t, err)
	assert.False(t, inserted)
	assert.Equal(t, store.RetCProtocolError, store.CodeOf(err))

	_, err = c.Execute("HSET links abc " + long)
	assert.Equal(t, store.RetCProtocolError, store.CodeOf(err))

	_, found, err := c.HGet("links", "abc")
	require.NoError(t, err)
	assert.False(t, found, "nothing of the long request may be stored")

	// exactly at the limit (including the newline)
	prefix := "HSET links abc "
	fits := strings.Repeat("v", common.DefaultServerBufferSize-len(prefix)-1)
	reply, err := c.Execute(prefix + fits)
	require.NoError(t, err)
	assert.Equal(t, "Key 'abc' added to new table 'links'", reply)

	value, found, err := c.HGet("links", "abc")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, fits, value)
}

func TestRequestLimitMatchesServerBuffer(t *testing.T) {
	serverCfg := common.DefaultServerConfig()
	serverCfg.ReadBufferSize = 4096
	clientCfg := common.DefaultClientConfig()
	clientCfg.MaxRequestSize = 4096
	c := newServerStoreWithClient(t, serverCfg, clientCfg)

	long := strings.Repeat("v", 1500)
	inserted, err := c.HSet("links", "abc", long)
	require.NoError(t, err)
	assert.True(t, inserted)

	value, found, err := c.HGet("links", "abc")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, long, value)
}

func TestSave(t *testing.T) {
	c := newServerStore(t, common.DefaultServerConfig())
	err := c.Save()
	require.Error(t, err)
	assert.Equal(t, store.RetCProtocolError, store.CodeOf(err))

	cfg := common.DefaultServerConfig()
	cfg.SnapshotFile = filepath.Join(t.TempDir(), "sybd.json")
	persistent := newServerStore(t, cfg)
	assert.NoError(t, persistent.Save())
}

func TestTransportFailure(t *testing.T) {
	c := newServerStore(t, common.DefaultServerConfig())
	require.NoError(t, c.srv.Close())

	_, err := c.Execute("PING")
	require.Error(t, err)
	assert.Equal(t, store.RetCInternalError, store.CodeOf(err))
}

func TestIsMiss(t *testing.T) {
	assert.True(t, IsMiss("nil: key 'k' not found"))
	assert.False(t, IsMiss("value"))
	assert.False(t, IsMiss(""))
}
