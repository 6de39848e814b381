package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/almanac/internal/config"
	"github.com/papapumpkin/almanac/internal/telemetry"
)

var telemetryCmd = &cobra.Command{
	Use:   "telemetry [file]",
	Short: "View JSONL telemetry events from scheduling runs",
	Long: `Reads and formats a JSONL telemetry file. Without an argument the
configured telemetry.path is used.

With --run, only events from that run are shown.
With --follow (-f), watches the file for new events (like tail -f).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTelemetry,
}

func init() {
	telemetryCmd.Flags().String("run", "", "only show events from this run ID")
	telemetryCmd.Flags().BoolP("follow", "f", false, "follow the file for new events")
	rootCmd.AddCommand(telemetryCmd)
}

func runTelemetry(cmd *cobra.Command, args []string) error {
	runID, _ := cmd.Flags().GetString("run")
	follow, _ := cmd.Flags().GetBool("follow")

	path, err := resolveTelemetryPath(args)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	defer f.Close()

	w := cmd.OutOrStdout()
	now := time.Now()
	reader := bufio.NewReader(f)
	if err := printLines(w, reader, runID, now); err != nil {
		return fmt.Errorf("telemetry: read %s: %w", path, err)
	}

	if !follow {
		return nil
	}

	return tailFollow(w, reader, path, runID)
}

// resolveTelemetryPath returns the file argument or the configured path.
func resolveTelemetryPath(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	if cfg.Telemetry.Path == "" {
		return "", errors.New("telemetry: no file given and telemetry.path is not configured")
	}
	return cfg.Telemetry.Path, nil
}

// printLines prints every complete line available from r.
func printLines(w io.Writer, r *bufio.Reader, runID string, now time.Time) error {
	for {
		line, err := r.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			printEvent(w, line, runID, now)
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// tailFollow watches the file for new data using fsnotify and prints new events.
func tailFollow(w io.Writer, r *bufio.Reader, path, runID string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("telemetry: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("telemetry: watch %s: %w", path, err)
	}

	ctx, cancel := setupSignalContext()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) {
				continue
			}
			if err := printLines(w, r, runID, time.Now()); err != nil {
				return fmt.Errorf("telemetry: read %s: %w", path, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("telemetry: watch %s: %w", path, err)
		}
	}
}

// printEvent decodes a JSONL line and prints a human-readable representation.
// Events from other runs are skipped when runID is set.
func printEvent(w io.Writer, line, runID string, now time.Time) {
	evt, err := telemetry.Decode([]byte(line))
	if err != nil {
		fmt.Fprintf(w, "??? %s\n", line)
		return
	}
	if runID != "" && evt.RunID != runID {
		return
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("[%s]", relativeTime(evt.Timestamp, now)))
	parts = append(parts, evt.Kind)

	if evt.RunID != "" {
		parts = append(parts, fmt.Sprintf("run=%s", shortRunID(evt.RunID)))
	}
	if evt.File != "" {
		parts = append(parts, fmt.Sprintf("file=%s", evt.File))
	}
	if evt.TaskID != "" {
		parts = append(parts, fmt.Sprintf("task=%s", evt.TaskID))
	}
	if evt.Data != nil {
		if m, ok := evt.Data.(map[string]any); ok {
			parts = append(parts, formatDataMap(m))
		} else {
			data, _ := json.Marshal(evt.Data)
			parts = append(parts, string(data))
		}
	}

	fmt.Fprintln(w, strings.Join(parts, " "))
}

// relativeTime renders ts relative to now, e.g. "3 minutes ago".
func relativeTime(ts, now time.Time) string {
	return humanize.RelTime(ts, now, "ago", "from now")
}

// shortRunID trims a UUID to its first group.
func shortRunID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// formatDataMap formats a data map as key=value pairs sorted by key.
func formatDataMap(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s=%v", k, m[k])
	}
	return b.String()
}
