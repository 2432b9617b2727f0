package client

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ValentinKolb/sybd/cmd/util"
	"github.com/ValentinKolb/sybd/lib/store"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for sybd servers",
		Long:    "Runs a fixed number of requests per test against the server from several goroutines and reports throughput and latency percentiles.",
		Args:    cobra.NoArgs,
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfTablePrefix = "__perf"
	perfNumThreads  = 10
	perfRequests    = 10000
	perfKeySpread   = 100
	perfSkip        = make([]string, 0)
	perfCSV         = ""
)

// perfTests are executed in this order. Every test gets the request index and returns the query.
var perfTests = []struct {
	name  string
	setup func(s store.IStore) error
	query func(i int) string
}{
	{name: "hset", query: func(i int) string {
		return fmt.Sprintf("HSET %s-hset key-%d value-%d", perfTablePrefix, i, i)
	}},
	{name: "hget", setup: fillTable("hget"), query: func(i int) string {
		return fmt.Sprintf("HGET %s-hget key-%d", perfTablePrefix, i%perfKeySpread)
	}},
	{name: "stack", query: func(i int) string {
		if i%2 == 0 {
			return "SPUSH perf"
		}
		return "SPOP"
	}},
	{name: "queue", query: func(i int) string {
		if i%2 == 0 {
			return "QPUSH perf"
		}
		return "QPOP"
	}},
	{name: "mixed", setup: fillTable("mixed"), query: func(i int) string {
		key := rand.IntN(perfKeySpread)
		switch op := rand.IntN(100); {
		case op < 80:
			return fmt.Sprintf("HGET %s-mixed key-%d", perfTablePrefix, key)
		case op < 95:
			return fmt.Sprintf("HSET %s-mixed key-%d value", perfTablePrefix, key)
		default:
			return fmt.Sprintf("HDEL %s-mixed key-%d", perfTablePrefix, key)
		}
	}},
	{name: "ping", query: func(int) string { return "PING" }},
}

// perfResult is the outcome of one test
type perfResult struct {
	name     string
	timer    gometrics.Timer
	errors   gometrics.Counter
	elapsed  time.Duration
	skipped  bool
	setupErr error
}

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Tests to skip (comma separated - e.g. hset,mixed)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, perfNumThreads, util.WrapString("Number of goroutines sending requests"))
	key = "requests"
	perfTestCmd.Flags().Int(key, perfRequests, util.WrapString("Number of requests per test"))
	key = "keys"
	perfTestCmd.Flags().Int(key, perfKeySpread, util.WrapString("How many different keys to use for the read tests"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save the results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfNumThreads = max(1, viper.GetInt("threads"))
	perfRequests = max(1, viper.GetInt("requests"))
	perfKeySpread = max(1, viper.GetInt("keys"))
	perfSkip = strings.Split(viper.GetString("skip"), ",")
	perfCSV = viper.GetString("csv")

	return nil
}

func runPerf(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "Performance testing tool for sybd servers")

	// Print configuration
	config, err := util.GetClientConfig()
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Configuration:")
	fmt.Fprintln(w, config.String())
	fmt.Fprintf(w, "Threads: %d, Requests per test: %d, Keys: %d\n\n", perfNumThreads, perfRequests, perfKeySpread)

	results := runPerfTests(rpcStore)
	printResults(w, results)

	if perfCSV != "" {
		if err := writeResultsToCSV(perfCSV, results); err != nil {
			return err
		}
		fmt.Fprintf(w, "\nResults written to %s\n", perfCSV)
	}
	return nil
}

// runPerfTests runs all tests that are not skipped against s
func runPerfTests(s store.IStore) []perfResult {
	registry := gometrics.NewRegistry()
	results := make([]perfResult, 0, len(perfTests))

	for _, test := range perfTests {
		result := perfResult{name: test.name}
		if shouldSkip(test.name) {
			result.skipped = true
			results = append(results, result)
			continue
		}

		if test.setup != nil {
			if err := test.setup(s); err != nil {
				result.setupErr = err
				results = append(results, result)
				continue
			}
		}

		result.timer = gometrics.GetOrRegisterTimer(test.name+".latency", registry)
		result.errors = gometrics.GetOrRegisterCounter(test.name+".errors", registry)
		result.elapsed = runParallel(s, test.query, result.timer, result.errors)

		results = append(results, result)
	}

	cleanupPerfTables(s)
	return results
}

// runParallel distributes perfRequests requests over perfNumThreads goroutines
func runParallel(s store.IStore, query func(int) string, timer gometrics.Timer, errs gometrics.Counter) time.Duration {
	var wg sync.WaitGroup
	var next sync.Mutex
	issued := 0

	start := time.Now()
	for t := 0; t < perfNumThreads; t++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				next.Lock()
				i := issued
				issued++
				next.Unlock()
				if i >= perfRequests {
					return
				}

				reqStart := time.Now()
				_, err := s.Execute(query(i))
				timer.UpdateSince(reqStart)
				if err != nil {
					errs.Inc(1)
				}
			}
		}()
	}
	wg.Wait()
	return time.Since(start)
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == strings.TrimSpace(skip) {
			return true
		}
	}
	return false
}

// fillTable creates the keys read by a test
func fillTable(test string) func(s store.IStore) error {
	return func(s store.IStore) error {
		for i := 0; i < perfKeySpread; i++ {
			if _, err := s.Execute(fmt.Sprintf("HSET %s-%s key-%d value-%d", perfTablePrefix, test, i, i)); err != nil {
				return err
			}
		}
		return nil
	}
}

// cleanupPerfTables removes the keys written by the tests.
// Tables cannot be dropped, so they stay behind empty.
func cleanupPerfTables(s store.IStore) {
	for _, test := range []string{"hset", "hget", "mixed"} {
		n := perfKeySpread
		if test == "hset" {
			n = perfRequests
		}
		for i := 0; i < n; i++ {
			s.Execute(fmt.Sprintf("HDEL %s-%s key-%d", perfTablePrefix, test, i))
		}
	}
}

// opsPerSec returns the throughput of a result
func (r perfResult) opsPerSec() float64 {
	if r.elapsed <= 0 {
		return 0
	}
	return float64(r.timer.Count()) / r.elapsed.Seconds()
}

// printResults prints the results of all tests in a formatted way
func printResults(w io.Writer, results []perfResult) {
	fmt.Fprintf(w, "%-10s%12s%12s%12s%12s%12s%8s\n", "test", "ops/sec", "mean", "p50", "p95", "p99", "errors")
	for _, r := range results {
		switch {
		case r.skipped:
			fmt.Fprintf(w, "%-10sskipped\n", r.name)
		case r.setupErr != nil:
			fmt.Fprintf(w, "%-10ssetup failed: %v\n", r.name, r.setupErr)
		default:
			snap := r.timer.Snapshot()
			ps := snap.Percentiles([]float64{0.5, 0.95, 0.99})
			fmt.Fprintf(w, "%-10s%12.0f%12s%12s%12s%12s%8d\n",
				r.name,
				r.opsPerSec(),
				time.Duration(snap.Mean()).Round(time.Microsecond),
				time.Duration(ps[0]).Round(time.Microsecond),
				time.Duration(ps[1]).Round(time.Microsecond),
				time.Duration(ps[2]).Round(time.Microsecond),
				r.errors.Count(),
			)
		}
	}
}

// writeResultsToCSV writes the results to a CSV file
func writeResultsToCSV(csvPath string, results []perfResult) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	// Write header
	header := []string{"Test", "Skipped", "Requests", "OpsPerSec", "MeanNs", "P50Ns", "P95Ns", "P99Ns", "Errors", "Threads"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range results {
		row := []string{r.name, strconv.FormatBool(r.skipped || r.setupErr != nil)}
		if r.timer == nil {
			row = append(row, "0", "0", "0", "0", "0", "0", "0")
		} else {
			snap := r.timer.Snapshot()
			ps := snap.Percentiles([]float64{0.5, 0.95, 0.99})
			row = append(row,
				strconv.FormatInt(snap.Count(), 10),
				fmt.Sprintf("%.0f", r.opsPerSec()),
				fmt.Sprintf("%.0f", snap.Mean()),
				fmt.Sprintf("%.0f", ps[0]),
				fmt.Sprintf("%.0f", ps[1]),
				fmt.Sprintf("%.0f", ps[2]),
				strconv.FormatInt(r.errors.Count(), 10),
			)
		}
		row = append(row, strconv.Itoa(perfNumThreads))

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %w", r.name, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
