package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/almanac/internal/calendar"
	"github.com/papapumpkin/almanac/internal/project"
	"github.com/papapumpkin/almanac/internal/schedule"
)

var rescheduleCmd = &cobra.Command{
	Use:   "reschedule <file> <task-id>",
	Short: "Recompute one task and everything downstream of it",
	Long: `Schedules the project once, then moves the given task (optionally to
a new start with --start) and recomputes only its transitive successors.
Tasks outside the affected set keep their dates.`,
	Args: cobra.ExactArgs(2),
	RunE: runReschedule,
}

func init() {
	rescheduleCmd.Flags().String("start", "", "new start date for the task (YYYY-MM-DD)")
	rescheduleCmd.Flags().Bool("json", false, "write the result as JSON to stdout")
	rootCmd.AddCommand(rescheduleCmd)
}

func runReschedule(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	path, id := args[0], project.ID(args[1])
	startFlag, _ := cmd.Flags().GetString("start")
	asJSON, _ := cmd.Flags().GetBool("json")

	var start calendar.Date
	if startFlag != "" {
		if start, err = calendar.ParseDate(startFlag); err != nil {
			return fmt.Errorf("--start: %w", err)
		}
	}

	r, err := s.schedule(path)
	if err != nil {
		return err
	}

	tasks := moveTask(scheduledTasks(r.project.Tasks, r.result), id, start, r.project.Calendar)
	began := time.Now()
	res, err := schedule.Reschedule(id, tasks, r.project.Links, s.options(path, r.project))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	r.result, r.elapsed = res, time.Since(began)
	r.project.Tasks = tasks
	s.recordResult(r)

	if asJSON {
		return writeScheduleJSON(cmd.OutOrStdout(), r, nil)
	}
	s.printer.RescheduleDone(id, res.Affected)
	s.report(cmd.OutOrStdout(), r, nil)
	return nil
}

// moveTask sets id's start to start and clears its end, pinning its
// current workday length as its duration. A zero start leaves tasks
// unchanged.
func moveTask(tasks []project.Task, id project.ID, start calendar.Date, cal calendar.Calendar) []project.Task {
	if start.IsZero() {
		return tasks
	}
	for i := range tasks {
		if tasks[i].ID != id {
			continue
		}
		if tasks[i].Duration == 0 && tasks[i].Scheduled() {
			tasks[i].Duration = max(1, cal.CountWorkdays(tasks[i].Start, tasks[i].End))
		}
		tasks[i].Start, tasks[i].End = start, calendar.Date{}
	}
	return tasks
}
