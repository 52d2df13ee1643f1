// Command coro is a small CLI wrapping this repository's worked examples
// for manual exercise. It is explicitly outside the runtime's core scope —
// a collaborator exercising the library, not part of it.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/unnamed2/libcoro"
	"github.com/unnamed2/libcoro/examples"
)

func newRootCmd() *cobra.Command {
	var (
		maxWorkers uint
		panicPolicy string
	)

	root := &cobra.Command{
		Use:   "coro",
		Short: "Exercise the coro concurrency runtime's worked examples",
	}
	root.PersistentFlags().UintVar(&maxWorkers, "max-workers", 0, "scheduler worker cap (0 = runtime.NumCPU())")
	root.PersistentFlags().StringVar(&panicPolicy, "panic-policy", "log", "panic policy: swallow|log|abort")

	newRuntime := func() (*coro.Runtime, error) {
		var opts []coro.Option
		if maxWorkers > 0 {
			opts = append(opts, coro.WithMaxWorkers(maxWorkers))
		}
		switch panicPolicy {
		case "swallow":
			opts = append(opts, coro.WithPanicPolicy(coro.PolicySwallow))
		case "abort":
			opts = append(opts, coro.WithPanicPolicy(coro.PolicyAbort))
		default:
			opts = append(opts, coro.WithPanicPolicy(coro.PolicyLog))
		}
		opts = append(opts, coro.WithLogger(zerolog.New(os.Stderr).With().Timestamp().Logger()))
		return coro.NewRuntime(opts...)
	}

	var (
		echoAddr string
		echoPort int
	)
	echoCmd := &cobra.Command{
		Use:   "echo",
		Short: "Run the echo server worked example (blocks until the listener errors)",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			return examples.RunEcho(rt, echoAddr, echoPort)
		},
	}
	echoCmd.Flags().StringVar(&echoAddr, "addr", "0.0.0.0", "listen address")
	echoCmd.Flags().IntVar(&echoPort, "port", 5432, "listen port")

	var (
		numProducers int
		numConsumers int
		perProducer  int
	)
	pcCmd := &cobra.Command{
		Use:   "producer-consumer",
		Short: "Run the producer/consumer worked example and report the consumed sum",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			result, err := examples.RunProducerConsumer(rt, numProducers, numConsumers, perProducer)
			if err != nil {
				return err
			}
			fmt.Println(result)
			return nil
		},
	}
	pcCmd.Flags().IntVar(&numProducers, "producers", 100, "number of producer tasks")
	pcCmd.Flags().IntVar(&numConsumers, "consumers", 70, "number of consumer tasks")
	pcCmd.Flags().IntVar(&perProducer, "per-producer", 10, "integers pushed per producer")

	root.AddCommand(echoCmd, pcCmd)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
