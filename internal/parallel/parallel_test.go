package parallel

import (
	"sync/atomic"
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestFor(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 8}

	var counter int64
	n := 1000

	For(n, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	if counter != int64(n) {
		t.Errorf("Expected %d, got %d", n, counter)
	}
}

func TestForRange_CoversEveryIndexOnce(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 3, MinChunkSize: 5}
	n := 101
	hits := make([]int32, n)

	var chunks int64
	ForRange(n, func(start, end int) {
		atomic.AddInt64(&chunks, 1)
		for i := start; i < end; i++ {
			atomic.AddInt32(&hits[i], 1)
		}
	}, cfg)

	for i, h := range hits {
		if h != 1 {
			t.Fatalf("index %d visited %d times", i, h)
		}
	}
	if chunks < 2 {
		t.Errorf("expected work to be split, got %d chunk(s)", chunks)
	}
}

func TestFor_Sequential(t *testing.T) {
	cfg := Sequential()

	var counter int64
	For(100, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	if counter != 100 {
		t.Errorf("Expected 100, got %d", counter)
	}
}

func TestFor_SmallChunk(t *testing.T) {
	// Small work units run inline as a single chunk.
	cfg := DefaultConfig()

	var chunks int64
	ForRange(cfg.MinChunkSize-1, func(_, _ int) {
		atomic.AddInt64(&chunks, 1)
	}, cfg)

	if chunks != 1 {
		t.Errorf("Expected 1 chunk, got %d", chunks)
	}
}

func TestForRange_Empty(t *testing.T) {
	called := false
	ForRange(0, func(_, _ int) { called = true }, DefaultConfig())
	if called {
		t.Error("ForRange(0) should not call f")
	}
}

func BenchmarkFor(b *testing.B) {
	cfg := DefaultConfig()
	n := 100000

	b.Run("parallel", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var sum int64
			For(n, func(i int) {
				atomic.AddInt64(&sum, int64(i))
			}, cfg)
		}
	})

	b.Run("sequential", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var sum int64
			For(n, func(i int) {
				atomic.AddInt64(&sum, int64(i))
			}, Sequential())
		}
	})
}
