package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dshills/svnmirror/internal/logging"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Keys shared by flags, environment variables and the config file.
const (
	KeySourceRoot = "svn_dir"
	KeyOutputRoot = "output_dir"
	KeyRevision1  = "revision_1"
	KeyRevision2  = "revision_2"
	KeyVerbose    = "verbose"
	KeyQuiet      = "quiet"
	KeySVNBinary  = "svn_binary"
	KeySVNArgs    = "svn_args"
	KeyXML        = "xml"
	KeyInclude    = "include"
	KeyExclude    = "exclude"
	KeyDryRun     = "dry_run"
	KeyReport     = "report"
	KeyReportOut  = "report_out"
	KeyLogLevel   = "log_level"
)

// EnvPrefix prefixes every environment variable, e.g. SVNMIRROR_SVN_DIR.
const EnvPrefix = "SVNMIRROR"

// Config represents the svnmirror configuration.
type Config struct {
	SourceRoot string   `mapstructure:"svn_dir" json:"svn_dir"`
	OutputRoot string   `mapstructure:"output_dir" json:"output_dir"`
	Revision1  string   `mapstructure:"revision_1" json:"revision_1"`
	Revision2  string   `mapstructure:"revision_2" json:"revision_2"`
	Verbose    bool     `mapstructure:"verbose" json:"verbose"`
	Quiet      bool     `mapstructure:"quiet" json:"quiet,omitempty"`
	SVNBinary  string   `mapstructure:"svn_binary" json:"svn_binary"`
	SVNArgs    []string `mapstructure:"svn_args" json:"svn_args,omitempty"`
	XML        bool     `mapstructure:"xml" json:"xml"`
	Include    []string `mapstructure:"include" json:"include,omitempty"`
	Exclude    []string `mapstructure:"exclude" json:"exclude,omitempty"`
	DryRun     bool     `mapstructure:"dry_run" json:"dry_run"`
	Report     string   `mapstructure:"report" json:"report"`
	ReportOut  string   `mapstructure:"report_out" json:"report_out,omitempty"`
	LogLevel   string   `mapstructure:"log_level" json:"log_level"`
}

// Report formats accepted by the report key.
var reportFormats = []string{"none", "text", "json", "markdown"}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Revision2: "HEAD",
		Verbose:   true,
		SVNBinary: "svn",
		Report:    "none",
		LogLevel:  logging.LevelWarn,
	}
}

// ConfigDir returns the platform-appropriate config directory for svnmirror.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "svnmirror"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "svnmirror"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "svnmirror"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "svnmirror"), nil
	default:
		return filepath.Join(home, ".config", "svnmirror"), nil
	}
}

// ConfigPath returns the full path to the default config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// ResolvePath picks the config file: an explicit path wins, then
// SVNMIRROR_CONFIG, then [ConfigPath]. explicit is false only for the last.
func ResolvePath(flagPath string) (path string, explicit bool, err error) {
	if flagPath != "" {
		return flagPath, true, nil
	}
	if env := os.Getenv(EnvPrefix + "_CONFIG"); env != "" {
		return env, true, nil
	}
	path, err = ConfigPath()
	return path, false, err
}

func newViper() *viper.Viper {
	v := viper.New()
	d := Default()
	v.SetDefault(KeySourceRoot, d.SourceRoot)
	v.SetDefault(KeyOutputRoot, d.OutputRoot)
	v.SetDefault(KeyRevision1, d.Revision1)
	v.SetDefault(KeyRevision2, d.Revision2)
	v.SetDefault(KeyVerbose, d.Verbose)
	v.SetDefault(KeyQuiet, d.Quiet)
	v.SetDefault(KeySVNBinary, d.SVNBinary)
	v.SetDefault(KeySVNArgs, []string{})
	v.SetDefault(KeyXML, d.XML)
	v.SetDefault(KeyInclude, []string{})
	v.SetDefault(KeyExclude, []string{})
	v.SetDefault(KeyDryRun, d.DryRun)
	v.SetDefault(KeyReport, d.Report)
	v.SetDefault(KeyReportOut, d.ReportOut)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	return v
}

func keys() []string {
	return []string{
		KeySourceRoot, KeyOutputRoot, KeyRevision1, KeyRevision2,
		KeyVerbose, KeyQuiet, KeySVNBinary, KeySVNArgs, KeyXML,
		KeyInclude, KeyExclude, KeyDryRun, KeyReport, KeyReportOut, KeyLogLevel,
	}
}

func readFile(v *viper.Viper, path string, explicit bool) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// LoadFile loads defaults overlaid with the config file at path. A missing
// file yields the defaults.
func LoadFile(path string) (Config, error) {
	v := newViper()
	if err := readFile(v, path, false); err != nil {
		return Config{}, err
	}
	return decode(v)
}

// Save writes the config to path as YAML.
func Save(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	v := viper.New()
	for key, value := range cfg.settings() {
		v.Set(key, value)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// settings maps every key to its value. Run-specific keys are left out when
// empty so a saved file does not pin them.
func (c Config) settings() map[string]interface{} {
	m := map[string]interface{}{
		KeyRevision2: c.Revision2,
		KeyVerbose:   c.Verbose,
		KeySVNBinary: c.SVNBinary,
		KeyXML:       c.XML,
		KeyDryRun:    c.DryRun,
		KeyReport:    c.Report,
		KeyLogLevel:  c.LogLevel,
	}
	optional := map[string]string{
		KeySourceRoot: c.SourceRoot,
		KeyOutputRoot: c.OutputRoot,
		KeyRevision1:  c.Revision1,
		KeyReportOut:  c.ReportOut,
	}
	for k, val := range optional {
		if val != "" {
			m[k] = val
		}
	}
	if len(c.SVNArgs) > 0 {
		m[KeySVNArgs] = c.SVNArgs
	}
	if len(c.Include) > 0 {
		m[KeyInclude] = c.Include
	}
	if len(c.Exclude) > 0 {
		m[KeyExclude] = c.Exclude
	}
	return m
}

// Load builds the effective config by merging: defaults <- file <- env <- flags.
// Only flags the user changed take precedence over the other layers. A flag
// named after a key, with underscores or dashes, is bound to it; flags may be
// nil. The result is not validated.
func Load(flags *pflag.FlagSet) (Config, error) {
	v := newViper()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	var flagPath string
	if flags != nil {
		if f := flags.Lookup("config"); f != nil {
			flagPath = f.Value.String()
		}
	}
	path, explicit, err := ResolvePath(flagPath)
	if err != nil {
		return Config{}, err
	}
	if err := readFile(v, path, explicit); err != nil {
		return Config{}, err
	}

	if flags != nil {
		for _, key := range keys() {
			f := flags.Lookup(key)
			if f == nil {
				f = flags.Lookup(strings.ReplaceAll(key, "_", "-"))
			}
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("binding flag %s: %w", f.Name, err)
			}
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return Config{}, err
	}
	if cfg.Quiet {
		cfg.Verbose = false
	}
	return cfg, nil
}

// UsageError reports a missing or invalid option. It is raised before any
// work begins.
type UsageError struct {
	Option string
	Reason string
}

func (e *UsageError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("required option %s missing", e.Option)
	}
	return fmt.Sprintf("invalid option %s: %s", e.Option, e.Reason)
}

// Validate checks that every required option is present and that enumerated
// options hold a known value.
func (c Config) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{KeySourceRoot, c.SourceRoot},
		{KeyOutputRoot, c.OutputRoot},
		{KeyRevision1, c.Revision1},
		{KeyRevision2, c.Revision2},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &UsageError{Option: r.key}
		}
	}

	if !contains(reportFormats, c.Report) {
		return &UsageError{
			Option: KeyReport,
			Reason: fmt.Sprintf("unsupported format %q (want one of %s)", c.Report, strings.Join(reportFormats, ", ")),
		}
	}
	if !logging.Valid(c.LogLevel) {
		return &UsageError{Option: KeyLogLevel, Reason: fmt.Sprintf("unknown level %q", c.LogLevel)}
	}
	for _, p := range append(append([]string{}, c.Include...), c.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return &UsageError{Option: "include/exclude", Reason: fmt.Sprintf("malformed glob %q", p)}
		}
	}
	return nil
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case KeySourceRoot:
		cfg.SourceRoot = value
	case KeyOutputRoot:
		cfg.OutputRoot = value
	case KeyRevision1:
		cfg.Revision1 = value
	case KeyRevision2:
		cfg.Revision2 = value
	case KeySVNBinary:
		cfg.SVNBinary = value
	case KeyReport:
		cfg.Report = value
	case KeyReportOut:
		cfg.ReportOut = value
	case KeyLogLevel:
		cfg.LogLevel = value
	case KeyVerbose, KeyXML, KeyDryRun:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be a boolean: %w", key, err)
		}
		switch key {
		case KeyVerbose:
			cfg.Verbose = b
		case KeyXML:
			cfg.XML = b
		case KeyDryRun:
			cfg.DryRun = b
		}
	case KeySVNArgs:
		cfg.SVNArgs = SplitComma(value)
	case KeyInclude:
		cfg.Include = SplitComma(value)
	case KeyExclude:
		cfg.Exclude = SplitComma(value)
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// JSON renders the config for display.
func (c Config) JSON() (string, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SplitComma splits a comma-separated list, trimming blanks.
func SplitComma(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
