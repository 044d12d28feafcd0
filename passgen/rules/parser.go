// Package rules parses the passgen rule notation into a types.RuleSet.
//
// A rule is a sequence of bracket groups, one per output slot:
//
//	['a','b']        literal options
//	[0..9]           an unquoted range
//	['a..c','!']     quoted options, each of which may itself be a range
//	[wordlist:x.txt] every non-blank line of a wordlist
//
// Groups do not nest: the first ']' closes the group. Quoted options may
// contain an escaped quote written as \'.
package rules

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/arthur-debert/passgen/types"
)

var (
	bracketPattern  = regexp.MustCompile(`\[(.*?)\]`)
	wordlistPattern = regexp.MustCompile(`^wordlist:(.+)$`)
	rangePattern    = regexp.MustCompile(`^(\S)\.\.(\S)$`)
	quotedPattern   = regexp.MustCompile(`'([^'\\]*(?:\\.[^'\\]*)*)'`)
)

// WordlistSource resolves a wordlist name to its ordered lines
type WordlistSource interface {
	Load(name string) ([]string, error)
}

// Parser turns rule strings into RuleSets
type Parser struct {
	wordlists WordlistSource
	logger    *slog.Logger
}

// ParserOption configures a Parser
type ParserOption func(*Parser)

// WithLogger sets the logger used for debug output
func WithLogger(logger *slog.Logger) ParserOption {
	return func(p *Parser) {
		p.logger = logger
	}
}

// NewParser creates a Parser. wordlists may be nil when rules never reference wordlists.
func NewParser(wordlists WordlistSource, opts ...ParserOption) *Parser {
	p := &Parser{
		wordlists: wordlists,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses rule with a default Parser
func Parse(rule string, wordlists WordlistSource) (*types.RuleSet, error) {
	return NewParser(wordlists).Parse(rule)
}

// Parse converts rule into a RuleSet. Any failure aborts the whole parse;
// partial rule sets are never returned.
func (p *Parser) Parse(rule string) (*types.RuleSet, error) {
	groups := bracketPattern.FindAllStringSubmatch(rule, -1)
	if len(groups) == 0 {
		return nil, ErrNoRulesFound
	}

	var positions []types.Position
	for i, group := range groups {
		content := group[1]

		options, err := p.parseGroup(content)
		if err != nil {
			return nil, &GroupError{Index: i + 1, Content: content, Err: err}
		}

		// Groups that yield nothing are dropped rather than kept empty
		if len(options) == 0 {
			p.logger.Debug("dropping empty group", "index", i+1, "content", content)
			continue
		}

		positions = append(positions, types.Position{Options: options, Source: content})
	}

	if len(positions) == 0 {
		return nil, ErrNoRulesParsed
	}

	rs, err := types.NewRuleSet(positions...)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("parsed rules", "groups", len(groups), "positions", rs.Len(), "total", rs.Total().String())
	return rs, nil
}

func (p *Parser) parseGroup(content string) ([]string, error) {
	if m := wordlistPattern.FindStringSubmatch(strings.TrimSpace(content)); m != nil {
		return p.loadWordlist(strings.TrimSpace(m[1]))
	}

	if m := rangePattern.FindStringSubmatch(content); m != nil {
		return Expand(m[1], m[2])
	}

	var options []string
	for _, m := range quotedPattern.FindAllStringSubmatch(content, -1) {
		token := unescape(m[1])

		if r := rangePattern.FindStringSubmatch(token); r != nil {
			expanded, err := Expand(r[1], r[2])
			if err != nil {
				return nil, err
			}
			options = append(options, expanded...)
			continue
		}

		options = append(options, token)
	}
	return options, nil
}

func (p *Parser) loadWordlist(name string) ([]string, error) {
	if p.wordlists == nil {
		return nil, &WordlistError{Name: name, Err: ErrNoWordlistSource}
	}

	words, err := p.wordlists.Load(name)
	if err != nil {
		return nil, &WordlistError{Name: name, Err: err}
	}
	if len(words) == 0 {
		return nil, &WordlistError{Name: name, Err: ErrEmptyWordlist}
	}
	return words, nil
}

// unescape turns \' into a literal quote
func unescape(token string) string {
	return strings.ReplaceAll(token, `\'`, `'`)
}
