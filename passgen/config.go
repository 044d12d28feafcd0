package passgen

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/arthur-debert/passgen/formats"
	"github.com/arthur-debert/passgen/passgen/generator"
)

// ErrNoOutput is returned when neither an output file nor password display is requested
var ErrNoOutput = errors.New("at least one output method must be specified: an output file path or --show-passwords")

// Config holds everything a generation run needs
type Config struct {
	// Rules is the rule string, e.g. "['a'..'c'][0..9]"
	Rules string `mapstructure:"rules"`

	// OutputPath is the destination file; empty means records are only counted or echoed
	OutputPath string `mapstructure:"output"`

	// Processes is the requested worker count; zero or less means one per CPU
	Processes int `mapstructure:"processes"`

	// ShowPasswords echoes every record to the console
	ShowPasswords bool `mapstructure:"show-passwords"`

	Verbose bool `mapstructure:"verbose"`

	// SkipConfirmation starts generating without waiting for the user. The
	// Confirmer still sees the plan and is expected to accept it.
	SkipConfirmation bool `mapstructure:"yes"`

	// WordlistDir is searched first for relative wordlist names
	WordlistDir string `mapstructure:"wordlist-dir"`

	// Sink selects where workers buffer their records: "file" or "memory"
	Sink string `mapstructure:"sink"`

	// Timeout bounds generation and merge; zero means no limit
	Timeout time.Duration `mapstructure:"timeout"`

	// Format names the summary format: text, json or yaml
	Format string `mapstructure:"format"`
}

// DefaultConfig returns a Config with the default worker count and formats
func DefaultConfig() Config {
	return Config{
		Processes: runtime.NumCPU(),
		Sink:      string(generator.SinkFile),
		Format:    formats.DefaultFormat,
	}
}

// Validate normalises c in place and reports configuration errors. File
// system checks, such as the wordlist directory, are left to New.
func (c *Config) Validate() error {
	if c.Processes <= 0 {
		c.Processes = runtime.NumCPU()
	}

	if c.OutputPath == "" && !c.ShowPasswords {
		return ErrNoOutput
	}

	kind, err := generator.ParseSinkKind(c.Sink)
	if err != nil {
		return err
	}
	c.Sink = string(kind)

	if _, err := formats.Get(c.Format); err != nil {
		return err
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}

	return nil
}
