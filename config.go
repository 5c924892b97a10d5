package cleye

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigLoader layers declared option defaults from YAML config files and
// environment variables. Precedence stays flags > env > files: the loader
// only rewrites the defaults a flag falls back to, so anything given on the
// command line still wins.
type ConfigLoader struct {
	configPaths   []string
	configReaders []io.Reader
	envPrefix     string
}

// ConfigLoaderOption is a functional option for configuring a ConfigLoader.
type ConfigLoaderOption func(*ConfigLoader)

// FileConfig adds config file paths to load. Missing files are skipped.
func FileConfig(paths ...string) ConfigLoaderOption {
	return func(l *ConfigLoader) {
		l.configPaths = append(l.configPaths, paths...)
	}
}

// ReaderConfig adds io.Readers to load config from (for testing).
func ReaderConfig(readers ...io.Reader) ConfigLoaderOption {
	return func(l *ConfigLoader) {
		l.configReaders = append(l.configReaders, readers...)
	}
}

// EnvPrefix sets the environment variable prefix for default overrides.
// With prefix "MYAPP", the option count of command greet reads
// MYAPP_GREET_COUNT.
func EnvPrefix(prefix string) ConfigLoaderOption {
	return func(l *ConfigLoader) {
		l.envPrefix = prefix
	}
}

// NewConfigLoader creates a config loader with options.
func NewConfigLoader(opts ...ConfigLoaderOption) *ConfigLoader {
	loader := &ConfigLoader{}
	for _, opt := range opts {
		opt(loader)
	}
	return loader
}

// DefaultConfigPaths returns the conventional config file locations for an
// application name.
func DefaultConfigPaths(appName string) []string {
	home, _ := os.UserHomeDir()
	return []string{
		fmt.Sprintf("./%s.yaml", appName),
		filepath.Join(home, ".config", appName, "config.yaml"),
	}
}

// ApplySpecDefaults rewrites the declared defaults of the spec's option
// parameters from the loaded sources. Parameters without a default are
// positionals and are never touched. File values override declared
// defaults; environment values override file values.
func (l *ConfigLoader) ApplySpecDefaults(spec *Spec) error {
	merged, err := l.loadFiles()
	if err != nil {
		return err
	}
	scoped, _ := merged[toKebabCase(spec.Name)].(map[string]any)

	for i := range spec.Params {
		p := &spec.Params[i]
		if !p.HasDefault || p.Name == ContextParam {
			continue
		}

		if scoped != nil {
			if v, ok := lookupParam(scoped, p.Name); ok {
				p.Default = v
			}
		}

		if l.envPrefix != "" {
			envName := l.envPrefix + "_" + toEnvName(spec.Name) + "_" + toEnvName(p.Name)
			if s, ok := os.LookupEnv(envName); ok {
				v, err := p.Type.parse(s)
				if err != nil {
					return fmt.Errorf("%s: %w", envName, err)
				}
				p.Default = v
			}
		}
	}
	return nil
}

// loadFiles reads and deep-merges every configured source in order, so
// later sources override earlier ones.
func (l *ConfigLoader) loadFiles() (map[string]any, error) {
	merged := make(map[string]any)

	for _, path := range l.configPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := mergeYAML(merged, data); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	for _, r := range l.configReaders {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := mergeYAML(merged, data); err != nil {
			return nil, err
		}
	}

	return merged, nil
}

func mergeYAML(dst map[string]any, data []byte) error {
	var src map[string]any
	if err := yaml.Unmarshal(data, &src); err != nil {
		return fmt.Errorf("invalid YAML: %w", err)
	}
	mergeMaps(dst, src)
	return nil
}

// mergeMaps deep-merges src into dst; nested maps merge, everything else
// overwrites.
func mergeMaps(dst, src map[string]any) {
	for k, v := range src {
		if sv, ok := v.(map[string]any); ok {
			if dv, ok := dst[k].(map[string]any); ok {
				mergeMaps(dv, sv)
				continue
			}
		}
		dst[k] = v
	}
}

// lookupParam finds a parameter's value under either its declared spelling
// or its kebab-case CLI spelling.
func lookupParam(scope map[string]any, name string) (any, bool) {
	if v, ok := scope[name]; ok {
		return v, true
	}
	if v, ok := scope[toKebabCase(name)]; ok {
		return v, true
	}
	return nil, false
}

// toEnvName converts an identifier to the SCREAMING_SNAKE form used in
// environment variable names.
func toEnvName(s string) string {
	return strings.ToUpper(strings.ReplaceAll(toKebabCase(s), "-", "_"))
}
