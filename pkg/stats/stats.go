package stats

import (
	"bufio"
	"context"
	"os"
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

const megabyte = 1 << 20

// EnableMemoryStatistics starts a goroutine logging the memory usage and the
// number of goroutines of the process at every interval. Once ctx is done
// the registry is dumped to dumpPath, unless empty.
func EnableMemoryStatistics(
	ctx context.Context, interval time.Duration, dumpPath string,
) {
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				LogRuntimeStatistics()
			case <-ctx.Done():
				if dumpPath == "" {
					return
				}
				if err := DumpMetrics(dumpPath); err != nil {
					log.WithError(err).Warn("failed to dump metrics")
				}
				return
			}
		}
	}()
}

// LogRuntimeStatistics logs a single debug entry with heap and goroutine
// figures read from the go runtime.
func LogRuntimeStatistics() {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	log.WithFields(log.Fields{
		"total_alloc_mb": mem.TotalAlloc / megabyte,
		"heap_alloc_mb":  mem.HeapAlloc / megabyte,
		"mallocs":        mem.Mallocs,
		"frees":          mem.Frees,
		"goroutines":     runtime.NumGoroutine(),
	}).Debug("runtime statistics")
}

// DumpMetrics appends the current value of every registered metric to the
// file at path.
func DumpMetrics(path string) error {
	families, err := Registry.Gather()
	if err != nil {
		return err
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, family := range families {
		if _, err := w.WriteString(family.String() + "\n"); err != nil {
			return err
		}
	}
	return w.Flush()
}
