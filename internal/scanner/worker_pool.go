package scanner

import (
	"context"
	"runtime"
	"sync"
	"time"
)

// WorkerPool runs indexed jobs on a fixed number of goroutines.
type WorkerPool struct {
	workerCount int
}

// NewWorkerPool creates a pool; workerCount <= 0 means one worker per CPU.
func NewWorkerPool(workerCount int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	return &WorkerPool{workerCount: workerCount}
}

// Workers returns the configured parallelism.
func (wp *WorkerPool) Workers() int {
	return wp.workerCount
}

// Run calls fn for every index in [0, n) and returns the indexes that were
// never started because ctx was done. Jobs already running finish normally.
func (wp *WorkerPool) Run(ctx context.Context, n int, fn func(ctx context.Context, i int)) []int {
	workers := wp.workerCount
	if workers > n {
		workers = n
	}

	jobQueue := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobQueue {
				fn(ctx, i)
			}
		}()
	}

	var skipped []int
submit:
	for i := 0; i < n; i++ {
		// prefer stopping over submitting once ctx is done
		if ctx.Err() != nil {
			skipped = append(skipped, indexRange(i, n)...)
			break
		}
		select {
		case jobQueue <- i:
		case <-ctx.Done():
			skipped = append(skipped, indexRange(i, n)...)
			break submit
		}
	}
	close(jobQueue)
	wg.Wait()

	return skipped
}

func indexRange(from, to int) []int {
	out := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, i)
	}
	return out
}

// ProgressTracker tracks the progress of a scan
type ProgressTracker struct {
	total     int
	completed int
	startTime time.Time
	mutex     sync.RWMutex
}

// NewProgressTracker creates a new progress tracker
func NewProgressTracker(total int) *ProgressTracker {
	return &ProgressTracker{
		total:     total,
		startTime: time.Now(),
	}
}

// Increment increments the completion count and returns the new value
func (pt *ProgressTracker) Increment() int {
	pt.mutex.Lock()
	defer pt.mutex.Unlock()
	pt.completed++
	return pt.completed
}

// GetProgress returns completed, total, percent done and elapsed time
func (pt *ProgressTracker) GetProgress() (int, int, float64, time.Duration) {
	pt.mutex.RLock()
	defer pt.mutex.RUnlock()

	progress := 100.0
	if pt.total > 0 {
		progress = float64(pt.completed) / float64(pt.total) * 100
	}
	return pt.completed, pt.total, progress, time.Since(pt.startTime)
}

// EstimateTimeRemaining estimates the remaining time based on current progress
func (pt *ProgressTracker) EstimateTimeRemaining() time.Duration {
	pt.mutex.RLock()
	defer pt.mutex.RUnlock()

	if pt.completed == 0 {
		return 0
	}

	elapsed := time.Since(pt.startTime)
	avgTimePerItem := elapsed / time.Duration(pt.completed)
	return avgTimePerItem * time.Duration(pt.total-pt.completed)
}
