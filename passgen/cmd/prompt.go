package main

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/arthur-debert/passgen/formats"
	"github.com/arthur-debert/passgen/types"
)

// promptConfirmer waits for ENTER on in before generation starts.
// End of input or cancellation of ctx declines.
type promptConfirmer struct {
	in  io.Reader
	out io.Writer
}

func (p *promptConfirmer) Confirm(ctx context.Context, _ *types.Plan) (bool, error) {
	fmt.Fprint(p.out, "\nPress ENTER to start generating or Ctrl+C to abort...")

	answered := make(chan error, 1)
	go func() {
		_, err := bufio.NewReader(p.in).ReadString('\n')
		answered <- err
	}()

	select {
	case <-ctx.Done():
		return false, nil
	case err := <-answered:
		if err != nil {
			// EOF without a newline counts as an abort
			return false, nil
		}
		return true, nil
	}
}

// summaryConfirmer shows the plan summary and, unless ask is false, waits for
// the prompt before generation starts
type summaryConfirmer struct {
	format        *formats.SummaryFormat
	out           io.Writer
	status        io.Writer
	verbose       bool
	showPasswords bool
	ask           bool
	prompt        *promptConfirmer
}

func (s *summaryConfirmer) Confirm(ctx context.Context, plan *types.Plan) (bool, error) {
	if err := s.format.Plan(s.out, plan); err != nil {
		return false, err
	}
	if s.verbose {
		_ = formats.WritePositions(s.status, plan.RuleSet)
	}

	if s.ask {
		ok, err := s.prompt.Confirm(ctx, plan)
		if err != nil || !ok {
			return false, err
		}
	}

	fmt.Fprintf(s.status, "\nGenerating passwords using %d workers...\n", plan.Workers)
	if !s.showPasswords {
		fmt.Fprintln(s.status, "Password display is disabled. Use --show-passwords to view passwords in real-time.")
	}
	return true, nil
}
