package util

import (
	"strings"
	"testing"

	"github.com/ValentinKolb/sybd/rpc/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapString(t *testing.T) {
	text := strings.Repeat("word ", 30)
	wrapped := WrapString(text)

	for _, line := range strings.Split(wrapped, "\n") {
		assert.LessOrEqual(t, len(line), Wrap)
	}
	assert.Equal(t, strings.Fields(text), strings.Fields(wrapped))
	assert.Equal(t, "", WrapString("   "))
}

func TestGetClientConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.Set("endpoints", " 127.0.0.1:1, ,127.0.0.1:2")
	viper.Set("transport", "tcp")
	viper.Set("timeout", 3)
	viper.Set("conn-per-endpoint", 2)
	viper.Set("read-buffer", 4)
	viper.Set("max-request", 2048)

	cfg, err := GetClientConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"127.0.0.1:1", "127.0.0.1:2"}, cfg.Endpoints)
	assert.Equal(t, common.TransportTCP, cfg.Transport)
	assert.Equal(t, 3, cfg.TimeoutSecond)
	assert.Equal(t, 2, cfg.ConnectionsPerEndpoint)
	assert.Equal(t, 4096, cfg.ReadBufferSize)
	assert.Equal(t, 2048, cfg.RequestLimit())

	viper.Set("endpoints", " , ")
	_, err = GetClientConfig()
	assert.Error(t, err)

	viper.Set("endpoints", "127.0.0.1:1")
	viper.Set("transport", "udp")
	_, err = GetClientConfig()
	assert.Error(t, err)
}

func TestTransports(t *testing.T) {
	for _, tt := range []common.TransportType{common.TransportTCP, common.TransportUnix} {
		st, err := GetServerTransport(tt)
		require.NoError(t, err)
		assert.NotNil(t, st)

		ct, err := GetClientTransport(tt)
		require.NoError(t, err)
		assert.NotNil(t, ct)
	}

	_, err := GetServerTransport("udp")
	assert.Error(t, err)
	_, err = GetClientTransport("udp")
	assert.Error(t, err)
}
