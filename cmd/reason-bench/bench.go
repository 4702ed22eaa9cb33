package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gustavo-munhoz/reason/driver"
)

func newBenchCmd() *cobra.Command {
	var configPath string
	var repeats int

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Repeat a prequential run to measure throughput and RAM-hours",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if repeats <= 0 {
				repeats = 1
			}

			for i := 0; i < repeats; i++ {
				stream, err := buildStream(cfg.Stream)
				if err != nil {
					return fmt.Errorf("building stream: %w", err)
				}
				model := stream.Header()

				learner, err := buildLearner(cfg.Learner, model)
				if err != nil {
					return fmt.Errorf("building learner: %w", err)
				}
				evaluator := buildEvaluator(cfg.Evaluator, model)

				d, err := driver.New(learner, stream, evaluator, driver.Config{
					MaxInstances:      cfg.Driver.MaxInstances,
					MaxSeconds:        cfg.Driver.MaxSeconds,
					SampleFrequency:   cfg.Driver.SampleFrequency,
					MemCheckFrequency: cfg.Driver.MemCheckFrequency,
				})
				if err != nil {
					return err
				}

				started := time.Now()
				if err := d.Run(); err != nil {
					return err
				}
				elapsed := time.Since(started)

				last, ok := d.Curve().Last()
				if !ok {
					warnf("trial %d/%d: no snapshots recorded\n", i+1, repeats)
					continue
				}

				var throughput float64
				if elapsed.Seconds() > 0 {
					throughput = float64(last.InstancesSeen) / elapsed.Seconds()
				}
				infof(
					"trial %d/%d: %d instances in %s (%.0f/s), ram_hours=%.6f, accuracy=%.4f\n",
					i+1, repeats, last.InstancesSeen, elapsed, throughput, last.RAMHours, last.Accuracy,
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML run config")
	cmd.Flags().IntVar(&repeats, "repeats", 1, "number of times to repeat the run")
	cmd.MarkFlagRequired("config")
	return cmd
}
