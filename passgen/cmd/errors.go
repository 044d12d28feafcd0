package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/arthur-debert/passgen/internal/validation"
	"github.com/arthur-debert/passgen/passgen"
	"github.com/arthur-debert/passgen/passgen/merge"
	"github.com/arthur-debert/passgen/passgen/rules"
	"github.com/arthur-debert/passgen/passgen/wordlist"
	"github.com/arthur-debert/passgen/types"
)

// CLIError represents a user-friendly CLI error with context and suggestions
type CLIError struct {
	Operation   string   // The operation that failed (e.g., "parse rules", "generate")
	Cause       string   // The underlying cause
	Details     string   // Additional technical details
	Suggestions []string // Helpful suggestions for the user
	Underlying  error    // Original error for debugging
}

// Error implements the error interface
func (e *CLIError) Error() string {
	var msg strings.Builder

	if e.Operation != "" {
		msg.WriteString(fmt.Sprintf("Failed to %s", e.Operation))
	} else {
		msg.WriteString("Operation failed")
	}

	if e.Cause != "" {
		msg.WriteString(fmt.Sprintf(": %s", e.Cause))
	}

	if e.Details != "" {
		msg.WriteString(fmt.Sprintf(" (%s)", e.Details))
	}

	if len(e.Suggestions) > 0 {
		msg.WriteString("\n\nSuggestions:")
		for i, suggestion := range e.Suggestions {
			msg.WriteString(fmt.Sprintf("\n  %d. %s", i+1, suggestion))
		}
	}

	return msg.String()
}

// Unwrap returns the underlying error for error chain compatibility
func (e *CLIError) Unwrap() error {
	return e.Underlying
}

// NewConfigError creates an error for configuration issues
func NewConfigError(operation string, underlying error, suggestions ...string) *CLIError {
	return &CLIError{
		Operation:   operation,
		Cause:       fmt.Sprintf("configuration error: %v", underlying),
		Suggestions: suggestions,
		Underlying:  underlying,
	}
}

// Common suggestions
var (
	CommonSuggestions = struct {
		RuleSyntax  string
		RangeSyntax string
		WordlistDir string
		OutputFlag  string
		ShowFlag    string
		RunHelp     string
		CheckConfig string
	}{
		RuleSyntax:  "Write one bracket group per position, e.g. \"['a','b']['1','2']\"",
		RangeSyntax: "Ranges join two letters of the same case or two digits, e.g. ['a..z'] or [0..9]",
		WordlistDir: "Use -w to point at the directory holding your wordlists",
		OutputFlag:  "Pass an output file path after the rules",
		ShowFlag:    "Use -s to print passwords to the console",
		RunHelp:     "Run passgen --help for usage information",
		CheckConfig: "Check your configuration file or PASSGEN_* environment variables",
	}
)

// WrapError turns pipeline errors into CLIErrors with suggestions
func WrapError(operation string, err error) error {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		if cliErr.Operation == "" {
			cliErr.Operation = operation
		}
		return cliErr
	}

	e := &CLIError{Operation: operation, Cause: err.Error(), Underlying: err}

	var (
		rangeErr  *validation.RangeError
		lookupErr *wordlist.LookupError
	)
	switch {
	case errors.Is(err, passgen.ErrNoOutput):
		e.Cause = "no output method specified"
		e.Suggestions = []string{CommonSuggestions.OutputFlag, CommonSuggestions.ShowFlag}
	case errors.Is(err, rules.ErrNoRulesFound), errors.Is(err, rules.ErrNoRulesParsed):
		e.Cause = "no rules or malformed rules"
		e.Details = err.Error()
		e.Suggestions = []string{CommonSuggestions.RuleSyntax, CommonSuggestions.RunHelp}
	case errors.As(err, &rangeErr):
		e.Suggestions = []string{CommonSuggestions.RangeSyntax}
	case errors.As(err, &lookupErr):
		e.Cause = fmt.Sprintf("wordlist %q is not available", lookupErr.Name)
		e.Details = err.Error()
		e.Suggestions = []string{CommonSuggestions.WordlistDir, "Use an absolute path in [wordlist:/path/to/file.txt]"}
	case errors.Is(err, types.ErrSpaceTooLarge):
		e.Cause = "too many combinations to generate in one run"
		e.Suggestions = []string{"Split the rule into several smaller rules"}
	case errors.Is(err, merge.ErrOutputLocked):
		e.Suggestions = []string{"Wait for the other passgen run writing this file to finish"}
	case errors.Is(err, context.DeadlineExceeded):
		e.Suggestions = []string{"Increase --timeout or use 0 to disable it"}
	case errors.Is(err, context.Canceled):
		e.Cause = "generation cancelled"
	}

	return e
}
