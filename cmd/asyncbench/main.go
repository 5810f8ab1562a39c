// Command asyncbench drives the AsyncSink worker loop with a configurable
// number of producer goroutines to measure queue throughput under the
// Block overflow policy. It is peripheral to the core (spec.md §6): a
// benchmark harness, not a library entry point. Ported from
// original_source/bench/async_bench.cpp's argument surface
// (<messages> <threads> <queue_size> <iterations>) onto cobra/pflag, the
// CLI stack jsturma-joblet uses for its own command surface.
package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/tessonics/spdlog"
	"github.com/tessonics/spdlog/internal/queue"
	"github.com/tessonics/spdlog/sinks"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		messages   int
		threads    int
		queueSize  int
		iterations int
	)

	cmd := &cobra.Command{
		Use:   "asyncbench <messages> <threads> <queue_size> <iterations>",
		Short: "Benchmark AsyncSink throughput under policy=Block",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if messages, err = parsePositiveInt(args[0]); err != nil {
				return fmt.Errorf("messages: %w", err)
			}
			if threads, err = parsePositiveInt(args[1]); err != nil {
				return fmt.Errorf("threads: %w", err)
			}
			if queueSize, err = parsePositiveInt(args[2]); err != nil {
				return fmt.Errorf("queue_size: %w", err)
			}
			if iterations, err = parsePositiveInt(args[3]); err != nil {
				return fmt.Errorf("iterations: %w", err)
			}
			if queueSize > queue.MaxCapacity {
				return fmt.Errorf("queue_size %d exceeds max capacity %d", queueSize, queue.MaxCapacity)
			}
			return runBench(cmd, messages, threads, queueSize, iterations)
		},
		SilenceUsage: true,
	}

	return cmd
}

func parsePositiveInt(s string) (int, error) {
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be positive, got %d", n)
	}
	return n, nil
}

func runBench(cmd *cobra.Command, messages, threads, queueSize, iterations int) error {
	out := cmd.OutOrStdout()

	for iter := 1; iter <= iterations; iter++ {
		async, err := sinks.NewAsyncSink(sinks.AsyncConfig{
			QueueSize: queueSize,
			Policy:    sinks.Block,
			Sinks:     []spdlog.Sink{sinks.NewNullSink()},
		})
		if err != nil {
			return err
		}

		start := time.Now()

		var wg sync.WaitGroup
		perThread := messages / threads
		for t := 0; t < threads; t++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < perThread; i++ {
					_ = async.Log(spdlog.LogRecord{
						Level:   spdlog.Info,
						Time:    time.Now(),
						Payload: []byte("benchmark message"),
					})
				}
			}()
		}
		wg.Wait()
		async.WaitAllBlocking()
		async.Close()

		elapsed := time.Since(start)
		fmt.Fprintf(out, "iteration %d: %d messages across %d threads in %s (%.0f msg/s)\n",
			iter, messages, threads, elapsed, float64(messages)/elapsed.Seconds())
	}
	return nil
}
