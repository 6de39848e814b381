package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/papapumpkin/almanac/internal/config"
	"github.com/papapumpkin/almanac/internal/cpm"
	"github.com/papapumpkin/almanac/internal/project"
	"github.com/papapumpkin/almanac/internal/schedule"
	"github.com/papapumpkin/almanac/internal/telemetry"
	"github.com/papapumpkin/almanac/internal/ui"
)

// session holds what every command needs: resolved config, the stderr
// printer and the optional telemetry emitter.
type session struct {
	cfg     config.Config
	printer *ui.Printer
	emitter *telemetry.Emitter
}

func newSession() (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	printer := ui.New()
	printer.SetColor(cfg.Color)
	printer.SetVerbose(cfg.Verbose)

	s := &session{cfg: cfg, printer: printer}
	if cfg.Telemetry.Path != "" {
		em, err := telemetry.NewEmitter(cfg.Telemetry.Path)
		if err != nil {
			return nil, err
		}
		s.emitter = em
	}
	return s, nil
}

func (s *session) Close() {
	if err := s.emitter.Close(); err != nil {
		s.printer.Warn(err.Error())
	}
}

func (s *session) emit(evt telemetry.Event) {
	if err := s.emitter.Emit(evt); err != nil {
		s.printer.Verbose(err.Error())
	}
}

// load reads, validates and builds the project file at path on top of the
// configured calendar.
func (s *session) load(path string) (*project.Project, error) {
	f, err := project.Load(path)
	if err != nil {
		return nil, err
	}
	base, err := s.cfg.BaseCalendar()
	if err != nil {
		return nil, err
	}
	p, err := f.Build(base)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if p.Name == "" {
		p.Name = path
	}
	return p, nil
}

// run is one scheduled project file.
type run struct {
	path    string
	project *project.Project
	result  schedule.Result
	elapsed time.Duration
}

// options builds scheduling options for p, recording every placed task to
// telemetry under file.
func (s *session) options(file string, p *project.Project) schedule.Options {
	cal := p.Calendar
	return schedule.Options{
		Calendar:     &cal,
		ProjectStart: p.Start,
		ProjectEnd:   p.End,
		OnScheduleTask: func(id project.ID) {
			s.emit(telemetry.Event{Kind: telemetry.KindTaskScheduled, File: file, TaskID: string(id)})
		},
	}
}

// schedule loads and fully schedules the project at path.
func (s *session) schedule(path string) (*run, error) {
	p, err := s.load(path)
	if err != nil {
		return nil, err
	}
	s.emit(telemetry.Event{
		Kind: telemetry.KindScheduleStart,
		File: path,
		Data: map[string]any{"tasks": len(p.Tasks), "links": len(p.Links)},
	})

	began := time.Now()
	r := schedule.Schedule(p.Tasks, p.Links, s.options(path, p))
	out := &run{path: path, project: p, result: r, elapsed: time.Since(began)}
	s.recordResult(out)
	return out, nil
}

// recordResult emits the removed links, conflicts and summary of a run.
func (s *session) recordResult(r *run) {
	for _, rl := range r.result.Removed {
		s.emit(telemetry.Event{
			Kind: telemetry.KindLinkRemoved,
			File: r.path,
			Data: map[string]any{"link": rl.Link.String(), "reason": string(rl.Reason)},
		})
	}
	for _, c := range r.result.Conflicts {
		s.emit(telemetry.Event{
			Kind: telemetry.KindConflict,
			File: r.path,
			Data: map[string]any{"kind": string(c.Kind), "tasks": c.TaskIDs, "message": c.Message},
		})
	}
	s.emit(telemetry.Event{
		Kind: telemetry.KindScheduleDone,
		File: r.path,
		Data: map[string]any{
			"scheduled":  len(r.result.Tasks),
			"conflicts":  len(r.result.Conflicts),
			"elapsed_us": r.elapsed.Microseconds(),
		},
	})
}

// critical runs critical path analysis over the scheduled dates of r.
func (s *session) critical(r *run, mode cpm.Mode) []cpm.Entry {
	entries := cpm.Calculate(scheduledTasks(r.project.Tasks, r.result), r.project.Links, cpm.Options{
		ProjectStart: r.project.Start,
		ProjectEnd:   r.project.End,
		Mode:         mode,
	})
	s.emit(telemetry.Event{
		Kind: telemetry.KindCriticalPath,
		File: r.path,
		Data: map[string]any{"mode": string(mode), "critical": cpm.CriticalTaskIDs(entries)},
	})
	return entries
}

// scheduledTasks returns a copy of tasks carrying the dates r computed.
func scheduledTasks(tasks []project.Task, r schedule.Result) []project.Task {
	out := make([]project.Task, len(tasks))
	for i, t := range tasks {
		if d, ok := r.Dates(t.ID); ok {
			t.Start, t.End = d.Start, d.End
		}
		out[i] = t
	}
	return out
}

// taskNames maps task IDs to display names.
func taskNames(tasks []project.Task) map[project.ID]string {
	names := make(map[project.ID]string, len(tasks))
	for _, t := range tasks {
		names[t.ID] = t.Name
	}
	return names
}

// criticalMode resolves the --mode flag, falling back to config.
func (s *session) criticalMode(flag string) (cpm.Mode, error) {
	if flag == "" {
		flag = s.cfg.CriticalPath.Mode
	}
	return cpm.ParseMode(flag)
}

// setupSignalContext returns a context cancelled on SIGINT or SIGTERM.
func setupSignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
