package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/almanac/internal/cpm"
	"github.com/papapumpkin/almanac/internal/schedule"
	"github.com/papapumpkin/almanac/internal/ui"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule <file>...",
	Short: "Schedule one or more project files",
	Long: `Loads each project file, propagates dates along its links over the
working calendar, and prints the resulting schedule with a Gantt column.

Several files are scheduled concurrently; output keeps argument order.
With --critical, slack and critical tasks are shown alongside the dates.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().Bool("json", false, "write results as JSON to stdout")
	scheduleCmd.Flags().Bool("critical", false, "overlay critical path analysis")
	scheduleCmd.Flags().String("mode", "", "critical path mode: strict or flexible (default from config)")
	scheduleCmd.Flags().Int("workers", 0, "max files scheduled at once (default GOMAXPROCS)")
	rootCmd.AddCommand(scheduleCmd)
}

// scheduleJSON is the --json form of one scheduled file.
type scheduleJSON struct {
	File     string          `json:"file"`
	Project  string          `json:"project"`
	Result   schedule.Result `json:"result"`
	Critical []cpm.Entry     `json:"critical,omitempty"`
}

func runSchedule(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	asJSON, _ := cmd.Flags().GetBool("json")
	overlay, _ := cmd.Flags().GetBool("critical")
	modeFlag, _ := cmd.Flags().GetString("mode")
	workers, _ := cmd.Flags().GetInt("workers")

	mode, err := s.criticalMode(modeFlag)
	if err != nil {
		return err
	}

	runs, err := s.scheduleAll(args, workers)

	out := cmd.OutOrStdout()
	for _, r := range runs {
		if r == nil {
			continue
		}
		var entries []cpm.Entry
		if overlay {
			entries = s.critical(r, mode)
		}
		if asJSON {
			if jerr := writeScheduleJSON(out, r, entries); jerr != nil {
				return jerr
			}
			continue
		}
		s.report(out, r, entries)
	}
	return err
}

// scheduleAll schedules every path on a bounded pool. The returned slice
// is indexed like paths; failed files leave a nil entry and their errors
// are joined.
func (s *session) scheduleAll(paths []string, workers int) ([]*run, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	runs := make([]*run, len(paths))
	p := pool.New().WithErrors().WithMaxGoroutines(workers)
	for i, path := range paths {
		p.Go(func() error {
			r, err := s.schedule(path)
			if err != nil {
				s.printer.Error(err.Error())
				return err
			}
			runs[i] = r
			return nil
		})
	}
	return runs, p.Wait()
}

// report prints the status lines to stderr and the table to w.
func (s *session) report(w io.Writer, r *run, entries []cpm.Entry) {
	s.printer.ScheduleDone(r.path, r.result, r.elapsed)
	s.printer.RemovedLinks(r.result.Removed)
	s.printer.Conflicts(r.result.Conflicts)
	rows := ui.ScheduleRows(r.project.Tasks, r.result, entries, r.project.Calendar)
	fmt.Fprint(w, ui.RenderSchedule(r.project.Name, rows, s.cfg.Color))
}

func writeScheduleJSON(w io.Writer, r *run, entries []cpm.Entry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(scheduleJSON{
		File:     r.path,
		Project:  r.project.Name,
		Result:   r.result,
		Critical: entries,
	}); err != nil {
		return fmt.Errorf("encoding %s: %w", r.path, err)
	}
	return nil
}
