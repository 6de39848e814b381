package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/almanac/internal/cpm"
	"github.com/papapumpkin/almanac/internal/project"
	"github.com/papapumpkin/almanac/internal/ui"
)

var criticalCmd = &cobra.Command{
	Use:   "critical <file>",
	Short: "Show the critical path of a project",
	Long: `Schedules the project, then runs a forward and backward pass over the
scheduled dates to find early/late dates and slack for every task.

strict mode marks every zero-slack task; flexible mode marks a single
chain through the network. Independent workstreams are listed below.`,
	Args: cobra.ExactArgs(1),
	RunE: runCritical,
}

func init() {
	criticalCmd.Flags().String("mode", "", "strict or flexible (default from config)")
	criticalCmd.Flags().Bool("json", false, "write entries as JSON to stdout")
	rootCmd.AddCommand(criticalCmd)
}

// criticalJSON is the --json form of a critical path report.
type criticalJSON struct {
	File    string       `json:"file"`
	Mode    cpm.Mode     `json:"mode"`
	Chain   []project.ID `json:"chain"`
	Entries []cpm.Entry  `json:"entries"`
}

func runCritical(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	modeFlag, _ := cmd.Flags().GetString("mode")
	asJSON, _ := cmd.Flags().GetBool("json")
	mode, err := s.criticalMode(modeFlag)
	if err != nil {
		return err
	}

	r, err := s.schedule(args[0])
	if err != nil {
		s.printer.Error(err.Error())
		return err
	}
	entries := s.critical(r, mode)
	chain := cpm.Chain(entries, r.project.Links)

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(criticalJSON{File: r.path, Mode: mode, Chain: chain, Entries: entries})
	}

	s.printer.Conflicts(r.result.Conflicts)
	names := taskNames(r.project.Tasks)
	fmt.Fprint(out, ui.RenderCritical(entries, chain, names, mode, s.cfg.Color))

	valid, _ := project.RemoveInvalidLinks(r.project.Tasks, r.project.Links)
	if tracks := project.BuildGraph(r.project.Tasks, valid).ComputeTracks(); len(tracks) > 1 {
		fmt.Fprintln(out)
		fmt.Fprint(out, ui.RenderWorkstreams(tracks, names, s.cfg.Color))
	}
	return nil
}
