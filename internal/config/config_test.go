package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

// isolate points the config search path at an empty temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("SVNMIRROR_CONFIG", "")
	return dir
}

// testFlags mirrors the flag names the CLI registers.
func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.StringP("svn_dir", "s", "", "")
	fs.StringP("output_dir", "o", "", "")
	fs.StringP("revision_1", "r", "", "")
	fs.StringP("revision_2", "t", "HEAD", "")
	fs.BoolP("verbose", "v", true, "")
	fs.BoolP("quiet", "q", false, "")
	fs.String("svn-binary", "svn", "")
	fs.StringSlice("include", nil, "")
	fs.BoolP("dry-run", "n", false, "")
	fs.String("report", "none", "")
	fs.String("log-level", "warn", "")
	return fs
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Revision2 != "HEAD" {
		t.Errorf("Default revision_2 = %q, want %q", cfg.Revision2, "HEAD")
	}
	if !cfg.Verbose {
		t.Error("Default verbose should be true")
	}
	if cfg.SVNBinary != "svn" {
		t.Errorf("Default svn_binary = %q, want %q", cfg.SVNBinary, "svn")
	}
	if cfg.Report != "none" {
		t.Errorf("Default report = %q, want %q", cfg.Report, "none")
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("Default log_level = %q, want %q", cfg.LogLevel, "warn")
	}
}

func TestLoad_NoSources(t *testing.T) {
	isolate(t)
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Revision2 != "HEAD" || !cfg.Verbose || cfg.SVNBinary != "svn" {
		t.Errorf("Load(nil) = %+v, want defaults", cfg)
	}
}

func TestLoad_Flags(t *testing.T) {
	isolate(t)
	fs := testFlags()
	if err := fs.Parse([]string{"-s", "/wc", "-o", "/out", "-r", "100", "--svn-binary", "/opt/svn", "--include", "src/**,docs/**"}); err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	cfg, err := Load(fs)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.SourceRoot != "/wc" {
		t.Errorf("SourceRoot = %q, want %q", cfg.SourceRoot, "/wc")
	}
	if cfg.OutputRoot != "/out" {
		t.Errorf("OutputRoot = %q, want %q", cfg.OutputRoot, "/out")
	}
	if cfg.Revision1 != "100" {
		t.Errorf("Revision1 = %q, want %q", cfg.Revision1, "100")
	}
	if cfg.Revision2 != "HEAD" {
		t.Errorf("Revision2 = %q, want %q (default)", cfg.Revision2, "HEAD")
	}
	if cfg.SVNBinary != "/opt/svn" {
		t.Errorf("SVNBinary = %q, want %q", cfg.SVNBinary, "/opt/svn")
	}
	if len(cfg.Include) != 2 || cfg.Include[0] != "src/**" || cfg.Include[1] != "docs/**" {
		t.Errorf("Include = %v, want [src/** docs/**]", cfg.Include)
	}
}

func TestLoad_QuietOverridesVerbose(t *testing.T) {
	isolate(t)
	fs := testFlags()
	if err := fs.Parse([]string{"-v", "-q"}); err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	cfg, err := Load(fs)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Verbose {
		t.Error("-q should override -v")
	}
}

func TestLoad_Env(t *testing.T) {
	isolate(t)
	t.Setenv("SVNMIRROR_SVN_DIR", "/env/wc")
	t.Setenv("SVNMIRROR_REVISION_2", "200")
	t.Setenv("SVNMIRROR_QUIET", "true")
	t.Setenv("SVNMIRROR_EXCLUDE", "**/*.tmp,build/**")

	cfg, err := Load(testFlags())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.SourceRoot != "/env/wc" {
		t.Errorf("SourceRoot = %q, want %q", cfg.SourceRoot, "/env/wc")
	}
	if cfg.Revision2 != "200" {
		t.Errorf("Revision2 = %q, want %q", cfg.Revision2, "200")
	}
	if cfg.Verbose {
		t.Error("SVNMIRROR_QUIET should disable verbose")
	}
	if len(cfg.Exclude) != 2 {
		t.Errorf("Exclude = %v, want 2 patterns", cfg.Exclude)
	}
}

func TestConfigPrecedence(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "svnmirror", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	content := "svn_binary: /file/svn\nrevision_1: \"7\"\nreport: text\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SVNMIRROR_SVN_BINARY", "/env/svn")

	fs := testFlags()
	if err := fs.Parse([]string{"-r", "9"}); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(fs)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	// flag > env > file > default
	if cfg.Revision1 != "9" {
		t.Errorf("Revision1 = %q, want flag value %q", cfg.Revision1, "9")
	}
	if cfg.SVNBinary != "/env/svn" {
		t.Errorf("SVNBinary = %q, want env value %q", cfg.SVNBinary, "/env/svn")
	}
	if cfg.Report != "text" {
		t.Errorf("Report = %q, want file value %q", cfg.Report, "text")
	}
	if cfg.Revision2 != "HEAD" {
		t.Errorf("Revision2 = %q, want default %q", cfg.Revision2, "HEAD")
	}
}

func TestLoad_ExplicitConfigMissing(t *testing.T) {
	isolate(t)
	fs := testFlags()
	if err := fs.Parse([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml")}); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(fs); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoad_ConfigFromEnv(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "mirror.yaml")
	if err := os.WriteFile(path, []byte("output_dir: /from/env/file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SVNMIRROR_CONFIG", path)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.OutputRoot != "/from/env/file" {
		t.Errorf("OutputRoot = %q, want %q", cfg.OutputRoot, "/from/env/file")
	}
}

func TestValidate_Required(t *testing.T) {
	full := Default()
	full.SourceRoot = "/wc"
	full.OutputRoot = "/out"
	full.Revision1 = "1"
	if err := full.Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		option string
	}{
		{"svn_dir", func(c *Config) { c.SourceRoot = "" }, "svn_dir"},
		{"output_dir", func(c *Config) { c.OutputRoot = "" }, "output_dir"},
		{"revision_1", func(c *Config) { c.Revision1 = "  " }, "revision_1"},
		{"revision_2", func(c *Config) { c.Revision2 = "" }, "revision_2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := full
			tt.mutate(&cfg)
			err := cfg.Validate()
			var usage *UsageError
			if !errors.As(err, &usage) {
				t.Fatalf("Validate() = %v, want *UsageError", err)
			}
			if usage.Option != tt.option {
				t.Errorf("Option = %q, want %q", usage.Option, tt.option)
			}
			if !strings.Contains(err.Error(), "required option "+tt.option+" missing") {
				t.Errorf("Error() = %q, want it to name %s", err.Error(), tt.option)
			}
		})
	}
}

func TestValidate_FirstMissingReported(t *testing.T) {
	err := Default().Validate()
	var usage *UsageError
	if !errors.As(err, &usage) || usage.Option != "svn_dir" {
		t.Errorf("Validate() = %v, want svn_dir reported first", err)
	}
}

func TestValidate_Enumerations(t *testing.T) {
	base := Default()
	base.SourceRoot, base.OutputRoot, base.Revision1 = "/wc", "/out", "1"

	cfg := base
	cfg.Report = "xml"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "report") {
		t.Errorf("Validate() = %v, want report error", err)
	}

	cfg = base
	cfg.LogLevel = "chatty"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "log_level") {
		t.Errorf("Validate() = %v, want log_level error", err)
	}

	cfg = base
	cfg.Exclude = []string{"[unclosed"}
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "malformed glob") {
		t.Errorf("Validate() = %v, want glob error", err)
	}
}

func TestSetField(t *testing.T) {
	cfg := Default()

	tests := []struct {
		key   string
		value string
		check func() bool
	}{
		{"svn_dir", "/wc", func() bool { return cfg.SourceRoot == "/wc" }},
		{"revision_2", "PREV", func() bool { return cfg.Revision2 == "PREV" }},
		{"svn_binary", "/usr/local/bin/svn", func() bool { return cfg.SVNBinary == "/usr/local/bin/svn" }},
		{"verbose", "false", func() bool { return !cfg.Verbose }},
		{"xml", "true", func() bool { return cfg.XML }},
		{"svn_args", "--non-interactive,--trust-server-cert", func() bool { return len(cfg.SVNArgs) == 2 }},
		{"include", "src/**, lib/**", func() bool { return len(cfg.Include) == 2 && cfg.Include[1] == "lib/**" }},
		{"report", "json", func() bool { return cfg.Report == "json" }},
	}

	for _, tt := range tests {
		if err := SetField(&cfg, tt.key, tt.value); err != nil {
			t.Errorf("SetField(%q, %q) error: %v", tt.key, tt.value, err)
			continue
		}
		if !tt.check() {
			t.Errorf("SetField(%q, %q) did not apply", tt.key, tt.value)
		}
	}
}

func TestSetField_SVNArgsMatchesEnv(t *testing.T) {
	isolate(t)
	const value = "--non-interactive,--config-option=config:miscellany:use-commit-times=yes"
	t.Setenv("SVNMIRROR_SVN_ARGS", value)

	fromEnv, err := Load(testFlags())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	fromSet := Default()
	if err := SetField(&fromSet, KeySVNArgs, value); err != nil {
		t.Fatalf("SetField error: %v", err)
	}
	if !reflect.DeepEqual(fromEnv.SVNArgs, fromSet.SVNArgs) {
		t.Errorf("env gave %q, config set gave %q", fromEnv.SVNArgs, fromSet.SVNArgs)
	}
	if len(fromSet.SVNArgs) != 2 {
		t.Errorf("SVNArgs = %q, want 2 arguments", fromSet.SVNArgs)
	}
}

func TestSetField_UnknownKey(t *testing.T) {
	cfg := Default()
	if err := SetField(&cfg, "provider", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestSetField_InvalidBool(t *testing.T) {
	cfg := Default()
	if err := SetField(&cfg, "dry_run", "sometimes"); err == nil {
		t.Error("expected error for non-boolean value")
	}
}

func TestConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != filepath.Join("/tmp/xdg-test", "svnmirror") {
		t.Errorf("ConfigDir = %q, want %q", dir, "/tmp/xdg-test/svnmirror")
	}
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath error: %v", err)
	}
	if path != filepath.Join("/tmp/xdg-test", "svnmirror", "config.yaml") {
		t.Errorf("ConfigPath = %q, want %q", path, "/tmp/xdg-test/svnmirror/config.yaml")
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.SVNBinary = "/opt/svn/bin/svn"
	cfg.Verbose = false
	cfg.Exclude = []string{"**/*.log"}

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if loaded.SVNBinary != "/opt/svn/bin/svn" {
		t.Errorf("SVNBinary = %q, want %q", loaded.SVNBinary, "/opt/svn/bin/svn")
	}
	if loaded.Verbose {
		t.Error("Verbose should round-trip as false")
	}
	if len(loaded.Exclude) != 1 || loaded.Exclude[0] != "**/*.log" {
		t.Errorf("Exclude = %v, want [**/*.log]", loaded.Exclude)
	}
	if loaded.SourceRoot != "" {
		t.Errorf("unset svn_dir should not be saved, got %q", loaded.SourceRoot)
	}
}

func TestLoadFile_NoFile(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	// Missing file yields defaults
	if cfg.Revision2 != "HEAD" {
		t.Errorf("Revision2 = %q, want default %q", cfg.Revision2, "HEAD")
	}
}

func TestSplitComma(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"a", 1},
		{"a,b,c", 3},
		{" a , ,b ", 2},
		{",,,", 0},
	}
	for _, tt := range tests {
		if got := SplitComma(tt.input); len(got) != tt.want {
			t.Errorf("SplitComma(%q) = %v, want %d parts", tt.input, got, tt.want)
		}
	}
}
