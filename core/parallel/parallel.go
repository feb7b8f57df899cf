// Package parallel splits index ranges across goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize divides items into contiguous [start, end) chunks, one per
// worker, and runs fn on each chunk concurrently. maxWorkers <= 0 means
// runtime.NumCPU(). It returns the first non-nil error reported by a chunk
// and the number of workers that were started.
func Parallelize(items, maxWorkers int, fn func(start, end int) error) (int, error) {
	if items == 0 {
		return 0, nil
	}

	numWorkers := maxWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > items {
		numWorkers = items
	}

	// ceiling division
	chunkSize := (items + numWorkers - 1) / numWorkers

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
		started  int
	)
	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}

		started++
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			if err := fn(s, e); err != nil {
				once.Do(func() { firstErr = err })
			}
		}(start, end)
	}
	wg.Wait()

	return started, firstErr
}

// ParallelizeWithThreshold runs fn over the whole range on the calling
// goroutine when items <= threshold, and fans out with Parallelize otherwise.
func ParallelizeWithThreshold(items, threshold, maxWorkers int, fn func(start, end int) error) (int, error) {
	if items <= threshold {
		if items == 0 {
			return 0, nil
		}
		return 1, fn(0, items)
	}
	return Parallelize(items, maxWorkers, fn)
}
