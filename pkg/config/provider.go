package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory when no --config is given.
const DefaultConfigFile = "catalogadmin.json"

// fileProvider reads a JSON or YAML document. JSON is parsed by the YAML
// decoder since it is a subset.
type fileProvider struct {
	path      string
	required  bool
	watcher   *FileWatcher
	watcherMu sync.Mutex
	watchOnce sync.Once
	closeOnce sync.Once
}

// NewFileProvider creates a file source. A missing optional file yields no data;
// a missing required file is an error.
func NewFileProvider(path string, required bool) Source {
	return &fileProvider{path: path, required: required}
}

func (f *fileProvider) Path() string {
	return f.path
}

func (f *fileProvider) Load() (map[string]any, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !f.required {
			return make(map[string]any), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return make(map[string]any), nil
	}
	var config map[string]any
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", f.path, err)
	}
	return filterNilValues(config), nil
}

// filterNilValues drops nil leaves so they never override lower layers.
func filterNilValues(m map[string]any) map[string]any {
	result := make(map[string]any)
	for k, v := range m {
		if v == nil {
			continue
		}
		if nested, ok := v.(map[string]any); ok {
			if filtered := filterNilValues(nested); len(filtered) > 0 {
				result[k] = filtered
			}
			continue
		}
		result[k] = v
	}
	return result
}

func (f *fileProvider) Watch(ctx context.Context, debounce time.Duration, callback func()) error {
	var watchErr error
	f.watchOnce.Do(func() {
		f.watcherMu.Lock()
		defer f.watcherMu.Unlock()
		watcher, err := WatchFile(ctx, f.path, debounce)
		if err != nil {
			watchErr = fmt.Errorf("failed to watch config file: %w", err)
			return
		}
		f.watcher = watcher
	})
	if watchErr != nil {
		return watchErr
	}
	f.watcherMu.Lock()
	defer f.watcherMu.Unlock()
	if f.watcher != nil {
		f.watcher.OnChange(callback)
	}
	return nil
}

func (f *fileProvider) Type() SourceType {
	return SourceFile
}

func (f *fileProvider) Close() error {
	var closeErr error
	f.closeOnce.Do(func() {
		f.watcherMu.Lock()
		defer f.watcherMu.Unlock()
		if f.watcher != nil {
			closeErr = f.watcher.Close()
			f.watcher = nil
		}
	})
	return closeErr
}

// cliFlagPaths maps persistent flag names to config paths.
var cliFlagPaths = map[string]string{
	"products-url": "urls.products",
	"brands-url":   "urls.brands",
	"page-size":    "api.page_size",
	"timeout":      "api.timeout",
	"environment":  "runtime.environment",
	"log-level":    "runtime.log_level",
	"log-file":     "runtime.log_file",
	"format":       "cli.format",
	"watch-config": "cli.watch_config",
	"prefs-file":   "prefs.path",
}

// CLIFlagNames lists the flags that feed configuration.
func CLIFlagNames() []string {
	out := make([]string, 0, len(cliFlagPaths))
	for k := range cliFlagPaths {
		out = append(out, k)
	}
	return out
}

type cliProvider struct {
	flags map[string]any
}

// NewCLIProvider turns explicitly set flags into the highest-precedence source.
func NewCLIProvider(flags map[string]any) Source {
	return &cliProvider{flags: flags}
}

func (c *cliProvider) Load() (map[string]any, error) {
	config := make(map[string]any)
	for key, value := range c.flags {
		path, ok := cliFlagPaths[key]
		if !ok {
			continue
		}
		if err := setNested(config, path, value); err != nil {
			return nil, fmt.Errorf("failed to set CLI flag %s: %w", key, err)
		}
	}
	return config, nil
}

func (c *cliProvider) Watch(context.Context, time.Duration, func()) error {
	return nil
}

func (c *cliProvider) Type() SourceType {
	return SourceCLI
}

func (c *cliProvider) Close() error {
	return nil
}

func setNested(m map[string]any, path string, value any) error {
	if path == "" {
		return nil
	}
	parts := strings.Split(path, ".")
	current := m
	for i := 0; i < len(parts)-1; i++ {
		part := parts[i]
		if _, exists := current[part]; !exists {
			current[part] = make(map[string]any)
		}
		next, ok := current[part].(map[string]any)
		if !ok {
			return fmt.Errorf("configuration conflict: key %q is not a map", strings.Join(parts[:i+1], "."))
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
	return nil
}
