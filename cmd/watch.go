package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/almanac/internal/project"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-schedule a project file whenever it changes",
	Long: `Schedules the project, then watches the file and redraws the schedule
with its critical path after every change. Bursts of writes are debounced
(watch.debounce in config).`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().String("mode", "", "critical path mode: strict or flexible (default from config)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	modeFlag, _ := cmd.Flags().GetString("mode")
	if _, err := s.criticalMode(modeFlag); err != nil {
		return err
	}

	w, err := project.NewWatcher(args[0])
	if err != nil {
		return err
	}
	w.Debounce = s.cfg.Watch.Debounce
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	ctx, cancel := setupSignalContext()
	defer cancel()

	out := cmd.OutOrStdout()
	s.redraw(out, args[0], modeFlag)
	s.printer.WatchStarted(w.File)
	return s.watchLoop(ctx, out, args[0], modeFlag, w.Changes)
}

// watchLoop redraws on every change until ctx is done or changes closes.
func (s *session) watchLoop(ctx context.Context, out io.Writer, path, mode string, changes <-chan project.Change) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case c, ok := <-changes:
			if !ok {
				return nil
			}
			if c.Kind == project.ChangeRemoved {
				s.printer.WatchRemoved(path)
				continue
			}
			s.redraw(out, path, mode)
		}
	}
}

// redraw schedules path and prints it with its critical path. Load errors
// are printed, not returned, so a half-saved file does not end the watch.
func (s *session) redraw(out io.Writer, path, modeFlag string) {
	s.printer.ClearScreen()
	r, err := s.schedule(path)
	if err != nil {
		s.printer.Error(err.Error())
		return
	}
	mode, _ := s.criticalMode(modeFlag)
	s.report(out, r, s.critical(r, mode))
}
