package formats

import (
	"fmt"
	"io"
	"sort"

	"github.com/arthur-debert/passgen/types"
)

// SummaryFormat defines how plans and reports are written to the console
type SummaryFormat struct {
	// Name is the format identifier (alphanumeric, dashes, underscores, lowercase)
	Name string

	// Plan writes the pre-generation summary
	Plan func(w io.Writer, plan *types.Plan) error

	// Report writes the post-generation summary
	Report func(w io.Writer, report *types.Report) error
}

// DefaultFormat is used when no format is configured
const DefaultFormat = "text"

// registry holds all available summary formats
var registry = make(map[string]*SummaryFormat)

func init() {
	for _, f := range []*SummaryFormat{Text, JSON, YAML} {
		if err := Register(f); err != nil {
			panic(err)
		}
	}
}

// Register adds a new summary format to the registry
func Register(format *SummaryFormat) error {
	if !isValidFormatName(format.Name) {
		return fmt.Errorf("invalid format name %q: must be lowercase alphanumeric with dashes and underscores only", format.Name)
	}
	if format.Plan == nil || format.Report == nil {
		return fmt.Errorf("format %q must render both plans and reports", format.Name)
	}

	if _, exists := registry[format.Name]; exists {
		return fmt.Errorf("format %q already registered", format.Name)
	}

	registry[format.Name] = format
	return nil
}

// Get returns a summary format by name. An empty name selects DefaultFormat.
func Get(name string) (*SummaryFormat, error) {
	if name == "" {
		name = DefaultFormat
	}
	format, exists := registry[name]
	if !exists {
		return nil, fmt.Errorf("unknown format %q (available: %v)", name, List())
	}
	return format, nil
}

// List returns all registered format names, sorted
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// isValidFormatName checks if a format name is valid
func isValidFormatName(name string) bool {
	if name == "" {
		return false
	}

	for _, r := range name {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' && r != '_' {
			return false
		}
	}
	return true
}
