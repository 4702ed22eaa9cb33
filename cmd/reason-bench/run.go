package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gustavo-munhoz/reason/driver"
)

func newRunCmd() *cobra.Command {
	var configPath, exportPath, exportFormat, duckdbPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a single prequential evaluation from a config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

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

			if duckdbPath != "" {
				sink, err := driver.NewDuckDBSink(duckdbPath)
				if err != nil {
					return fmt.Errorf("opening duckdb sink: %w", err)
				}
				defer sink.Close()
				d = d.WithSink(sink)
			}

			infof("running %s learner over %s stream...\n", cfg.Learner.Kind, cfg.Stream.Kind)
			if err := d.Run(); err != nil {
				return err
			}

			last, ok := d.Curve().Last()
			if !ok {
				warnf("no snapshots recorded\n")
				return nil
			}
			successf("processed %d instances: accuracy=%.4f kappa=%.4f\n", last.InstancesSeen, last.Accuracy, last.Kappa)

			if exportPath != "" {
				if err := exportCurve(d.Curve(), exportPath, exportFormat); err != nil {
					return fmt.Errorf("exporting learning curve: %w", err)
				}
				infof("wrote learning curve to %s\n", exportPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML run config")
	cmd.Flags().StringVar(&exportPath, "export", "", "optional path to write the learning curve")
	cmd.Flags().StringVar(&exportFormat, "export-format", "csv", "csv, tsv or json")
	cmd.Flags().StringVar(&duckdbPath, "duckdb", "", "optional path to a DuckDB database to append snapshots to")
	cmd.MarkFlagRequired("config")
	return cmd
}

func exportCurve(curve *driver.LearningCurve, path, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var ef driver.ExportFormat
	switch format {
	case "csv", "":
		ef = driver.ExportCSV
	case "tsv":
		ef = driver.ExportTSV
	case "json":
		ef = driver.ExportJSON
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
	return curve.Export(f, ef)
}
