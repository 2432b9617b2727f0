package client

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/ValentinKolb/sybd/lib/store/lstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPerfTests(t *testing.T) {
	perfNumThreads, perfRequests, perfKeySpread = 4, 50, 5
	perfSkip = []string{"ping", " queue"}

	s := lstore.NewLocalStore(nil)
	results := runPerfTests(s)
	require.Len(t, results, len(perfTests))

	for _, r := range results {
		switch r.name {
		case "ping", "queue":
			assert.True(t, r.skipped, r.name)
		default:
			require.False(t, r.skipped, r.name)
			require.NoError(t, r.setupErr, r.name)
			assert.Equal(t, int64(perfRequests), r.timer.Count(), r.name)
			assert.Zero(t, r.errors.Count(), r.name)
			assert.Greater(t, r.opsPerSec(), 0.0, r.name)
		}
	}

	// the test keys are removed again
	for _, table := range []string{"__perf-hset", "__perf-hget", "__perf-mixed"} {
		reply, err := s.Execute("HLEN " + table)
		require.NoError(t, err)
		assert.Equal(t, "0", reply, table)
	}

	var out bytes.Buffer
	printResults(&out, results)
	assert.Contains(t, out.String(), "ops/sec")
	assert.Contains(t, out.String(), "skipped")

	path := filepath.Join(t.TempDir(), "perf.csv")
	require.NoError(t, writeResultsToCSV(path, results))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, len(perfTests)+1)
	assert.Equal(t, "Test", rows[0][0])
	assert.Equal(t, "hset", rows[1][0])
	assert.Equal(t, "50", rows[1][2])
}

func TestShouldSkip(t *testing.T) {
	perfSkip = []string{"hset", " mixed "}
	assert.True(t, shouldSkip("hset"))
	assert.True(t, shouldSkip("mixed"))
	assert.False(t, shouldSkip("hget"))
}
