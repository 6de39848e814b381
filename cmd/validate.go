package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/almanac/internal/project"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check project files for structural errors",
	Long: `Reports missing fields, duplicate IDs, malformed dates and link types,
unknown parents and end-before-start tasks. Links that scheduling would
ignore are listed as warnings.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	failed := 0
	for _, path := range args {
		f, err := project.Load(path)
		if err != nil {
			s.printer.Error(err.Error())
			failed++
			continue
		}
		name := f.Project.Name
		if name == "" {
			name = path
		}

		errs := project.Validate(f)
		s.printer.ValidateResult(name, len(f.Tasks), errs)
		if len(errs) > 0 {
			failed++
			continue
		}

		base, err := s.cfg.BaseCalendar()
		if err != nil {
			return err
		}
		p, err := f.Build(base)
		if err != nil {
			s.printer.Error(err.Error())
			failed++
			continue
		}
		_, removed := project.RemoveInvalidLinks(p.Tasks, p.Links)
		s.printer.RemovedLinks(removed)
		for _, c := range project.DetectCircularDependencies(p.Tasks, p.Links) {
			s.printer.Warn(fmt.Sprintf("cycle: %v", c))
		}
	}
	if failed > 0 {
		return fmt.Errorf("validation failed for %d file(s)", failed)
	}
	return nil
}
