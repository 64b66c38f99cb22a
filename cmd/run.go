package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/leanovate/gopter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/Beastly713/codecprop/pkg/property"
	"github.com/Beastly713/codecprop/pkg/report"
	"github.com/Beastly713/codecprop/pkg/runner"
)

type runOptions struct {
	reportDir   string
	useGopter   bool
	metricsFile string
}

func newRunCmd(a *app) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run [property...]",
		Short: "Check properties against the codec",
		Long: `Run checks the named properties, or all of them, against the codec.

Each property draws inputs until the iteration budget is spent or a
counterexample is found. Failing runs can be written as reports that
"codecprop replay" reproduces.

Example:
  codecprop run --iterations 5000 --report-dir ./reports
  codecprop run padding-mode-roundtrip --padding indifferent --gopter`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// 1. Resolve the properties
			ps, err := property.Select(args...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			// 2. Shrinking mode hands the streams to gopter
			if opts.useGopter {
				return runGopter(a, ps, out)
			}

			// 3. Run them in order
			registry := prometheus.NewRegistry()
			r, err := runner.New(a.settings.Base, a.runnerOptions(runner.WithRegisterer(registry))...)
			if err != nil {
				return err
			}
			results, runErr := r.RunAll(ps)
			for _, res := range results {
				fmt.Fprint(out, renderResult(res))
			}

			// 4. Reports and metrics are written even when a property aborted
			if opts.reportDir != "" {
				if err := writeReports(opts.reportDir, results, out); err != nil {
					return err
				}
			}
			if opts.metricsFile != "" {
				if err := prometheus.WriteToTextfile(opts.metricsFile, registry); err != nil {
					return fmt.Errorf("failed to write metrics: %w", err)
				}
			}

			if runErr != nil {
				return runErr
			}
			if !runner.Passed(results) {
				return fmt.Errorf("%d of %d properties failed", countFailed(results), len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.reportDir, "report-dir", "d", "", "Directory to write a report for every failed property")
	cmd.Flags().BoolVar(&opts.useGopter, "gopter", false, "Generate and shrink streams with gopter instead of the seeded runner")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "Write run metrics in Prometheus text format to this file")
	return cmd
}

func countFailed(results []*runner.Result) int {
	n := 0
	for _, res := range results {
		if !res.Success {
			n++
		}
	}
	return n
}

// ReportName is the file name a failed result is written under.
func ReportName(res *runner.Result) string {
	return fmt.Sprintf("%s_seed_%d.report", res.Property, res.Seed)
}

func writeReports(dir string, results []*runner.Result, out io.Writer) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	for _, res := range results {
		if res.Success || !res.State.Terminal() || res.Counterexample == nil {
			continue
		}
		path := filepath.Join(dir, ReportName(res))
		if err := writeReport(path, res); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %s\n", path)
	}
	return nil
}

func writeReport(path string, res *runner.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report %s: %w", path, err)
	}
	defer file.Close()

	if err := report.NewWriter(file).Write(res); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return file.Close()
}

func runGopter(a *app, ps []property.Property, out io.Writer) error {
	s := a.settings
	params := property.TestParameters(int64(s.Seed), s.Base.Iterations, s.StreamLen)
	env := property.Env{Base: s.Base, Build: a.factory}
	properties := property.Properties(params, env, ps...)
	if !properties.Run(gopter.NewFormatedReporter(true, 100, out)) {
		return fmt.Errorf("gopter found failing properties")
	}
	return nil
}
