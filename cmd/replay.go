package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Beastly713/codecprop/pkg/property"
	"github.com/Beastly713/codecprop/pkg/report"
	"github.com/Beastly713/codecprop/pkg/runner"
)

// ErrStillFailing is returned when a replayed counterexample still falsifies
// its property.
var ErrStillFailing = errors.New("counterexample still reproduces")

func newReplayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "replay [report...]",
		Short: "Replay the counterexamples recorded in reports",
		Long: `Replay parses each report, rebuilds the base configuration it was
recorded under and runs its property once over the recorded stream.

A report whose counterexample still reproduces makes the command fail;
one that no longer reproduces is reported as fixed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failing := 0
			for _, path := range args {
				res, err := replayFile(a, path)
				if err != nil {
					return err
				}
				if res == nil {
					fmt.Fprintf(out, "%s: %s\n", path, dimStyle.Render("no counterexample recorded"))
					continue
				}
				fmt.Fprint(out, renderResult(res))
				if res.Success {
					fmt.Fprintf(out, "%s: %s\n", path, passStyle.Render("no longer reproduces"))
					continue
				}
				failing++
			}
			if failing > 0 {
				return fmt.Errorf("%d of %d reports: %w", failing, len(args), ErrStillFailing)
			}
			return nil
		},
	}
}

// replayFile returns nil when the report carries nothing to replay.
func replayFile(a *app, path string) (*runner.Result, error) {
	// 1. Open and parse
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open report: %w", err)
	}
	defer file.Close()

	rep, err := report.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("invalid report %s: %w", path, err)
	}
	doc := rep.Document
	if doc.Counterexample == nil {
		return nil, nil
	}

	// 2. Rebuild the run the report came from
	p, err := property.Lookup(doc.Property)
	if err != nil {
		return nil, err
	}
	opts := append(a.runnerOptions(), runner.WithSeed(doc.Seed))
	r, err := runner.New(doc.Base, opts...)
	if err != nil {
		return nil, err
	}

	// 3. One iteration over the recorded stream
	return r.Replay(p, rep.Stream)
}
