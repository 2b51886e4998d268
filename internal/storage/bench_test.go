package storage

import (
	"fmt"
	"testing"

	"quiver/internal/ledger"
)

func createBenchStorage(b *testing.B) *Storage {
	b.Helper()
	now := fixedNow
	store, err := newStorageAt(b.TempDir(), &now)
	if err != nil {
		b.Fatalf("failed to create bench storage: %v", err)
	}
	return store
}

// seedHistory writes days of history ending yesterday.
func seedHistory(b *testing.B, store *Storage, days int) {
	b.Helper()
	today := ledger.DayOf(fixedNow)
	entries := make(map[ledger.Day]int, days)
	for i := 1; i <= days; i++ {
		entries[today.AddDays(-i)] = i % 120
	}
	if _, err := store.Merge(entries); err != nil {
		b.Fatalf("Merge failed: %v", err)
	}
}

// BenchmarkAddCount measures one load-mutate-save cycle.
func BenchmarkAddCount(b *testing.B) {
	store := createBenchStorage(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := store.AddCount(6); err != nil {
			b.Fatalf("AddCount failed: %v", err)
		}
	}
}

// BenchmarkLoad measures loading with years of history.
func BenchmarkLoad(b *testing.B) {
	for _, days := range []int{30, 365, 3650} {
		b.Run(fmt.Sprintf("days_%d", days), func(b *testing.B) {
			store := createBenchStorage(b)
			seedHistory(b, store, days)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := store.Load(); err != nil {
					b.Fatalf("Load failed: %v", err)
				}
			}
		})
	}
}

// BenchmarkStatsYear measures the year window used by the stats pane.
func BenchmarkStatsYear(b *testing.B) {
	store := createBenchStorage(b)
	seedHistory(b, store, 3650)
	l, err := store.Load()
	if err != nil {
		b.Fatal(err)
	}
	snap := l.Snapshot()
	today := ledger.DayOf(fixedNow)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		days := ledger.FilterByPeriod(snap, ledger.PeriodYear, -(i % 10), today)
		_ = ledger.Summarize(days)
	}
}
