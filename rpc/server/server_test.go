package server

import (
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/sybd/lib/store"
	"github.com/ValentinKolb/sybd/rpc/common"
	"github.com/ValentinKolb/sybd/rpc/transport/tcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() common.ServerConfig {
	cfg := common.DefaultServerConfig()
	cfg.Endpoint = "127.0.0.1:0"
	cfg.LogLevel = "error"
	return cfg
}

func startServer(t *testing.T, cfg common.ServerConfig) *RPCServer {
	t.Helper()
	s := NewRPCServer(cfg, tcp.NewTCPServerTransport())
	_, err := s.Start()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// rawConn is a plain socket client like the short-link service uses
type rawConn struct {
	t    *testing.T
	conn net.Conn
}

func dial(t *testing.T, s *RPCServer) *rawConn {
	t.Helper()
	conn, err := net.Dial("tcp", s.Addr().String())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return &rawConn{t: t, conn: conn}
}

func (c *rawConn) send(query string) string {
	c.t.Helper()
	_, err := c.conn.Write(common.EncodeRequest(query))
	require.NoError(c.t, err)

	c.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var resp []byte
	buf := make([]byte, 4096)
	for !common.IsComplete(resp) {
		n, err := c.conn.Read(buf)
		require.NoError(c.t, err)
		resp = append(resp, buf[:n]...)
	}
	return strings.TrimSuffix(string(resp), "\n")
}

func TestServerCommands(t *testing.T) {
	s := startServer(t, testConfig())
	c := dial(t, s)

	assert.Equal(t, "PONG", c.send("PING"))
	assert.Equal(t, "Key 'abc' added to new table 'links'", c.send("HSET links abc https://example.com"))
	assert.Equal(t, "https://example.com", c.send("HGET links abc"))
	assert.Equal(t, "nil: key 'zzz' not found", c.send("HGET links zzz"))
	assert.Equal(t, "", c.send("SPOP"))

	// protocol errors keep the connection open
	assert.Equal(t, "ERR unknown command 'FOO'", c.send("FOO"))
	assert.True(t, strings.HasPrefix(c.send("HSET links"), "ERR "))
	assert.Equal(t, "PONG", c.send("PING"))
}

func TestSaveWithoutSnapshotFile(t *testing.T) {
	s := startServer(t, testConfig())
	c := dial(t, s)

	assert.Equal(t, "ERR no snapshot file configured", c.send("SAVE"))
}

func TestSnapshotLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sybd.yaml")

	cfg := testConfig()
	cfg.SnapshotFile = path

	// missing file -> empty database
	s := startServer(t, cfg)
	c := dial(t, s)
	assert.Equal(t, "Key 'k' added to new table 't'", c.send("HSET t k v"))

	assert.Equal(t, "OK", c.send("SAVE"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "k")

	assert.Equal(t, "OK", c.send("SPUSH last"))
	require.NoError(t, s.Close())

	// the shutdown snapshot contains the state after SAVE
	s2 := startServer(t, cfg)
	c2 := dial(t, s2)
	assert.Equal(t, "v", c2.send("HGET t k"))
	assert.Equal(t, "last", c2.send("SPOP"))
}

func TestUnreadableSnapshotFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sybd.json")
	require.NoError(t, os.WriteFile(path, []byte("not a snapshot"), 0o644))

	cfg := testConfig()
	cfg.SnapshotFile = path

	s := NewRPCServer(cfg, tcp.NewTCPServerTransport())
	_, err := s.Start()
	require.Error(t, err)
	require.NoError(t, s.Close())

	// the file was not overwritten
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "not a snapshot", string(data))
}

func TestInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.ReadBufferSize = 0

	_, err := NewRPCServer(cfg, tcp.NewTCPServerTransport()).Start()
	assert.Error(t, err)
}

func TestStartTwice(t *testing.T) {
	s := startServer(t, testConfig())
	_, err := s.Start()
	assert.Error(t, err)
}

func TestServeReturnsOnClose(t *testing.T) {
	s := NewRPCServer(testConfig(), tcp.NewTCPServerTransport())

	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve() }()

	require.Eventually(t, func() bool { return s.Addr() != nil }, 5*time.Second, 10*time.Millisecond)
	require.NoError(t, s.Close())

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after Close")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	cfg := testConfig()
	cfg.MetricsEndpoint = "127.0.0.1:0"

	s := startServer(t, cfg)
	c := dial(t, s)
	c.send("PING")
	c.send("PING")
	c.send("NOPE")

	resp, err := http.Get("http://" + s.MetricsAddr().String() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := string(body)
	assert.Contains(t, out, `sybd_commands_total{verb="PING"} 2`)
	assert.Contains(t, out, `sybd_commands_total{verb="unknown"} 1`)
	assert.Contains(t, out, "sybd_command_errors_total 1")
	assert.Contains(t, out, "sybd_connections_open 1")
}

func TestAdapter(t *testing.T) {
	adapter := NewIStoreServerAdapter()

	_, err := adapter.Handle("PING", nil)
	assert.Equal(t, store.RetCInternalError, store.CodeOf(err))

	assert.Equal(t, "SAVE", verbOf("  SAVE now\n"))
	assert.Equal(t, "PING", verbOf("PING"))
	assert.Equal(t, "", verbOf("   "))
}
