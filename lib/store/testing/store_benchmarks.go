package testing

import (
	"fmt"
	"math/rand/v2"
	"testing"
)

// RunStoreBenchmarks runs all benchmarks for an IStore implementation
func RunStoreBenchmarks(b *testing.B, name string, factory StoreFactory) {
	b.Run(name, func(b *testing.B) {
		b.Run("HSet", func(b *testing.B) {
			benchmarkHSet(b, factory)
		})

		b.Run("HGet", func(b *testing.B) {
			benchmarkHGet(b, factory)
		})

		b.Run("StackPushPop", func(b *testing.B) {
			benchmarkStackPushPop(b, factory)
		})

		b.Run("MixedUsage", func(b *testing.B) {
			benchmarkMixedUsage(b, factory)
		})
	})
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

func benchmarkHSet(b *testing.B, factory StoreFactory) {
	s := factory()
	b.Cleanup(func() { s.Close() })

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Execute(fmt.Sprintf("HSET bench key-%d value-%d", i, i)); err != nil {
			b.Fatal(err)
		}
	}
}

func benchmarkHGet(b *testing.B, factory StoreFactory) {
	s := factory()
	b.Cleanup(func() { s.Close() })

	const numKeys = 1000
	for i := 0; i < numKeys; i++ {
		if _, err := s.Execute(fmt.Sprintf("HSET bench key-%d value-%d", i, i)); err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		counter := 0
		for pb.Next() {
			if _, err := s.Execute(fmt.Sprintf("HGET bench key-%d", counter%numKeys)); err != nil {
				b.Error(err)
				return
			}
			counter++
		}
	})
}

func benchmarkStackPushPop(b *testing.B, factory StoreFactory) {
	s := factory()
	b.Cleanup(func() { s.Close() })

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Execute("SPUSH value"); err != nil {
			b.Fatal(err)
		}
		if _, err := s.Execute("SPOP"); err != nil {
			b.Fatal(err)
		}
	}
}

// 80% reads, 15% writes and 5% deletes on a shared table
func benchmarkMixedUsage(b *testing.B, factory StoreFactory) {
	s := factory()
	b.Cleanup(func() { s.Close() })

	const numKeys = 1000
	for i := 0; i < numKeys; i++ {
		if _, err := s.Execute(fmt.Sprintf("HSET mixed key-%d value-%d", i, i)); err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			key := rand.IntN(numKeys)
			var query string
			switch op := rand.IntN(100); {
			case op < 80:
				query = fmt.Sprintf("HGET mixed key-%d", key)
			case op < 95:
				query = fmt.Sprintf("HSET mixed key-%d value", key)
			default:
				query = fmt.Sprintf("HDEL mixed key-%d", key)
			}
			if _, err := s.Execute(query); err != nil {
				b.Error(err)
				return
			}
		}
	})
}
