package executor

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

// BenchmarkPool_Submit benchmarks dispatch of no-op tasks in each mode
func BenchmarkPool_Submit(b *testing.B) {
	for _, mode := range []Mode{ModeParallel, ModeSerial} {
		b.Run(mode.String(), func(b *testing.B) {
			pool := NewPool(mode, quietLogger())
			defer pool.ShutdownNow()

			var wg sync.WaitGroup
			task := Task{Name: "bench", Run: func(ctx context.Context) { wg.Done() }}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				wg.Add(1)
				if err := pool.Submit(task); err != nil {
					b.Fatal(err)
				}
			}
			wg.Wait()
		})
	}
}

// BenchmarkPool_Fanout benchmarks groups of different widths submitted and drained
func BenchmarkPool_Fanout(b *testing.B) {
	for _, width := range []int{1, 8, 64} {
		b.Run(fmt.Sprintf("width_%d", width), func(b *testing.B) {
			pool := NewPool(ModeParallel, quietLogger())
			defer pool.ShutdownNow()

			for i := 0; i < b.N; i++ {
				var wg sync.WaitGroup
				wg.Add(width)
				for j := 0; j < width; j++ {
					_ = pool.Submit(Task{Name: "fanout", Run: func(ctx context.Context) { wg.Done() }})
				}
				wg.Wait()
			}
		})
	}
}
