package rules

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRulesFound is returned when the rule string has no [..] group
	ErrNoRulesFound = errors.New("no rules found or rules malformed")

	// ErrNoRulesParsed is returned when every group produced zero options
	ErrNoRulesParsed = errors.New("failed to parse any rules")

	// ErrNoWordlistSource is returned for a wordlist group when the parser has no source
	ErrNoWordlistSource = errors.New("no wordlist source configured")

	// ErrEmptyWordlist is returned when a wordlist source yields no words
	ErrEmptyWordlist = errors.New("wordlist has no words")
)

// WordlistError reports a wordlist group whose list could not be loaded or was empty
type WordlistError struct {
	Name string
	Err  error
}

func (e *WordlistError) Error() string {
	return fmt.Sprintf("wordlist %q unavailable: %v", e.Name, e.Err)
}

func (e *WordlistError) Unwrap() error {
	return e.Err
}

// GroupError locates a failure inside one bracket group of the rule string
type GroupError struct {
	// Index is the 1-based position of the group in the rule string
	Index   int
	Content string
	Err     error
}

func (e *GroupError) Error() string {
	return fmt.Sprintf("group %d [%s]: %v", e.Index, e.Content, e.Err)
}

func (e *GroupError) Unwrap() error {
	return e.Err
}
