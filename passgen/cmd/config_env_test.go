package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestPASSGEN_CONFIG_EnvironmentVariable(t *testing.T) {
	configContent := `yes: true
show-passwords: true
sink: memory
processes: "3"
timeout: 30s
`
	configPath := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	t.Setenv("PASSGEN_CONFIG", configPath)

	cli := NewCLI(strings.NewReader(""), &strings.Builder{}, &strings.Builder{})
	_ = cli.viperInst.BindPFlags(cli.rootCmd.Flags())

	cfg, warnings := cli.loadConfig([]string{"['a']"})
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if !cfg.SkipConfirmation || !cfg.ShowPasswords {
		t.Errorf("booleans not loaded from config: %+v", cfg)
	}
	if cfg.Sink != "memory" || cfg.Processes != 3 || cfg.Timeout != 30*time.Second {
		t.Errorf("values not loaded from config: %+v", cfg)
	}

	// With yes and show-passwords coming from the file, no prompt or output path is needed
	res := runCLI(t, "", "['a','b']")
	if res.code != 0 {
		t.Fatalf("exit %d, stderr: %s", res.code, res.stderr)
	}
	if !strings.Contains(res.stdout, "a\nb\n") {
		t.Errorf("passwords not shown:\n%s", res.stdout)
	}
}

func TestEnvironmentOverridesConfigFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "passgen.yaml")
	if err := os.WriteFile(configPath, []byte("format: yaml\nsink: memory\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PASSGEN_CONFIG", configPath)
	t.Setenv("PASSGEN_FORMAT", "json")
	t.Setenv("PASSGEN_WORDLIST_DIR", "/srv/lists")

	cli := NewCLI(strings.NewReader(""), &strings.Builder{}, &strings.Builder{})
	_ = cli.viperInst.BindPFlags(cli.rootCmd.Flags())

	cfg, _ := cli.loadConfig([]string{"['a']"})
	if cfg.Format != "json" {
		t.Errorf("Format = %q, want env value json", cfg.Format)
	}
	if cfg.Sink != "memory" {
		t.Errorf("Sink = %q, want config value memory", cfg.Sink)
	}
	if cfg.WordlistDir != "/srv/lists" {
		t.Errorf("WordlistDir = %q", cfg.WordlistDir)
	}
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("PASSGEN_CONFIG", filepath.Join(t.TempDir(), "none.yaml"))
	t.Setenv("PASSGEN_SINK", "memory")

	cli := NewCLI(strings.NewReader(""), &strings.Builder{}, &strings.Builder{})
	if err := cli.rootCmd.Flags().Parse([]string{"--sink", "file"}); err != nil {
		t.Fatal(err)
	}
	_ = cli.viperInst.BindPFlags(cli.rootCmd.Flags())

	cfg, _ := cli.loadConfig([]string{"['a']", "out.txt"})
	if cfg.Sink != "file" {
		t.Errorf("Sink = %q, want flag value file", cfg.Sink)
	}
	if cfg.OutputPath != "out.txt" {
		t.Errorf("OutputPath = %q", cfg.OutputPath)
	}
}
