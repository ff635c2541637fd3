package repo

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrInvalidConfig reports a missing or unreadable config, or one without
// core.repositoryformatversion 0.
var ErrInvalidConfig = errors.New("invalid repository config")

// Config mirrors the [core] section of .git/config.
type Config struct {
	Core CoreConfig `toml:"core"`
}

// CoreConfig holds the settings this engine understands. Unknown keys in
// the file are ignored.
type CoreConfig struct {
	RepositoryFormatVersion int64 `toml:"repositoryformatversion"`
	FileMode                bool  `toml:"filemode"`
	Bare                    bool  `toml:"bare"`
	Symlinks                bool  `toml:"symlinks"`
}

// DefaultConfig is the config written by Create.
func DefaultConfig() *Config {
	return &Config{Core: CoreConfig{RepositoryFormatVersion: 0}}
}

func (r *Repo) configPath() string {
	return r.Path("config")
}

// ReadConfig reads .git/config. The file must exist and set
// core.repositoryformatversion to 0. Sections other than [core], and
// [core] keys CoreConfig does not hold, are ignored.
func (r *Repo) ReadConfig() (*Config, error) {
	data, err := os.ReadFile(r.configPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w: configuration file missing", ErrInvalidConfig)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	doc, err := coreSection(string(data))
	if err != nil {
		return nil, fmt.Errorf("read config: %w: %v", ErrInvalidConfig, err)
	}
	var cfg Config
	md, err := toml.Decode(doc, &cfg)
	if err != nil {
		return nil, fmt.Errorf("read config: %w: %v", ErrInvalidConfig, err)
	}
	if !md.IsDefined("core", "repositoryformatversion") {
		return nil, fmt.Errorf("read config: %w: core.repositoryformatversion not set", ErrInvalidConfig)
	}
	if v := cfg.Core.RepositoryFormatVersion; v != 0 {
		return nil, fmt.Errorf("read config: %w: unsupported repositoryformatversion %d", ErrInvalidConfig, v)
	}
	return &cfg, nil
}

type coreKeyKind int

const (
	coreInt coreKeyKind = iota
	coreBool
)

// coreKeys are the [core] keys CoreConfig decodes, in output order.
var coreKeys = []struct {
	name string
	kind coreKeyKind
}{
	{"repositoryformatversion", coreInt},
	{"filemode", coreBool},
	{"bare", coreBool},
	{"symlinks", coreBool},
}

// coreSection pulls the known [core] keys out of a git config file and
// renders them as a TOML document. Git section and key names are
// case-insensitive, a repeated key keeps its last value, and booleans may
// be spelled yes/on/1 or written as a bare key.
func coreSection(data string) (string, error) {
	values := make(map[string]string)
	inCore := false
	for n, raw := range strings.Split(data, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || line[0] == '#' || line[0] == ';' {
			continue
		}
		if line[0] == '[' {
			end := strings.IndexByte(line, ']')
			if end < 0 {
				return "", fmt.Errorf("line %d: unterminated section header", n+1)
			}
			inCore = strings.EqualFold(strings.TrimSpace(line[1:end]), "core")
			if line = strings.TrimSpace(line[end+1:]); line == "" {
				continue
			}
		}
		if !inCore {
			continue
		}

		key, value, hasValue := strings.Cut(line, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		if i := strings.IndexAny(value, "#;"); i >= 0 {
			value = value[:i]
		}
		value = strings.Trim(strings.TrimSpace(value), `"`)
		for _, k := range coreKeys {
			if k.name != key {
				continue
			}
			if k.kind == coreBool {
				b, err := parseGitBool(value, hasValue)
				if err != nil {
					return "", fmt.Errorf("line %d: core.%s: %w", n+1, key, err)
				}
				value = strconv.FormatBool(b)
			}
			values[key] = value
		}
	}

	var b strings.Builder
	b.WriteString("[core]\n")
	for _, k := range coreKeys {
		if v, ok := values[k.name]; ok {
			fmt.Fprintf(&b, "%s = %s\n", k.name, v)
		}
	}
	return b.String(), nil
}

func parseGitBool(value string, hasValue bool) (bool, error) {
	if !hasValue {
		return true, nil
	}
	switch strings.ToLower(value) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0", "":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", value)
}

// WriteConfig atomically writes .git/config.
func (r *Repo) WriteConfig(cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = "\t"
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("write config: encode: %w", err)
	}

	tmp, err := os.CreateTemp(r.GitDir, ".config-tmp-*")
	if err != nil {
		return fmt.Errorf("write config: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write config: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: close: %w", err)
	}
	if err := os.Rename(tmpName, r.configPath()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: rename: %w", err)
	}
	return nil
}
