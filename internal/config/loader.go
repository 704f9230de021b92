package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceBuiltin SourceKind = "builtin"
	SourceFile    SourceKind = "file"
)

// Source records where a config value was set.
type Source struct {
	Kind   SourceKind
	Name   string // preset or defaults name
	File   string
	Line   int
	Column int
}

func (s Source) String() string {
	switch s.Kind {
	case SourceFile:
		return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
	case SourceBuiltin:
		return fmt.Sprintf("builtin preset %q", s.Name)
	default:
		return "default"
	}
}

type LoadResult struct {
	Config  *Config
	Sources map[string]Source // dotted YAML path -> file position of the winning value
	Files   []string          // every file read, in merge order
}

const (
	projectDir       = ".tilewin"
	projectAppFile   = "app.yaml"
	projectLocalFile = "local.yaml"
)

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "tilewin", "app.yaml"), nil
}

// Load reads the merged configuration from the standard location.
func Load() (*Config, error) {
	res, err := LoadWithSources()
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadWithSources loads config and returns file-level sources for introspection.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadWithProjectSources loads the user config plus the project overlays
// .tilewin/app.yaml and .tilewin/local.yaml under projectRoot.
func LoadWithProjectSources(projectRoot string) (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPathWithProject(path, projectRoot)
}

func LoadFromPath(path string) (*LoadResult, error) {
	return LoadFromPathWithProject(path, "")
}

// LoadFromPathWithProject loads path, then the project overlays under
// projectRoot when it is non-empty. A missing file is skipped.
func LoadFromPathWithProject(path string, projectRoot string) (*LoadResult, error) {
	candidates := []string{path}
	if strings.TrimSpace(projectRoot) != "" {
		root, err := canonicalPath(projectRoot)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates,
			filepath.Join(root, projectDir, projectAppFile),
			filepath.Join(root, projectDir, projectLocalFile),
		)
	}

	l := newLoader()
	raw := RawConfig{}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); errors.Is(err, fs.ErrNotExist) {
			continue
		} else if err != nil {
			return nil, err
		}
		fileRaw, err := l.load(candidate, nil)
		if err != nil {
			return nil, err
		}
		raw = raw.merge(fileRaw)
	}

	cfg, err := BuildEffectiveConfig(raw)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		return nil, withSource(err, l.sources)
	}
	return &LoadResult{Config: cfg, Sources: l.sources, Files: l.files}, nil
}

// loader reads config files and their includes. Each file is merged once;
// later writers win for both values and recorded sources.
type loader struct {
	seen    map[string]bool
	sources map[string]Source
	files   []string
}

func newLoader() *loader {
	return &loader{seen: map[string]bool{}, sources: map[string]Source{}}
}

// load returns the raw config of path with its includes merged underneath.
// chain is the include path that led here.
func (l *loader) load(path string, chain []string) (RawConfig, error) {
	file, err := canonicalPath(path)
	if err != nil {
		return RawConfig{}, err
	}
	for _, parent := range chain {
		if parent == file {
			return RawConfig{}, fmt.Errorf("include cycle detected: %s -> %s", strings.Join(chain, " -> "), file)
		}
	}
	if l.seen[file] {
		return RawConfig{}, nil
	}
	l.seen[file] = true

	data, err := os.ReadFile(file)
	if err != nil {
		return RawConfig{}, fmt.Errorf("%s: failed to read: %w", file, err)
	}
	own, root, err := parseFile(data)
	if err != nil {
		return RawConfig{}, fmt.Errorf("%s: %w", file, err)
	}

	merged := RawConfig{}
	for _, inc := range includeEntries(root, file) {
		targets, err := expandInclude(file, inc.value)
		if err != nil {
			return RawConfig{}, fmt.Errorf("%s: include %q: %w", inc.at, inc.value, err)
		}
		for _, target := range targets {
			incRaw, err := l.load(target, append(chain, file))
			if err != nil {
				return RawConfig{}, err
			}
			merged = merged.merge(incRaw)
		}
	}

	l.record(root, file, "")
	l.files = append(l.files, file)
	return merged.merge(own), nil
}

// parseFile decodes data strictly into a RawConfig and also returns the
// root mapping node for position lookups. An empty document yields a nil node.
func parseFile(data []byte) (RawConfig, *yaml.Node, error) {
	var raw RawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && err != io.EOF {
		return RawConfig{}, nil, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return RawConfig{}, nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		return raw, doc.Content[0], nil
	}
	return raw, nil, nil
}

// record stores the position of every mapping value and list under node,
// keyed by dotted path.
func (l *loader) record(node *yaml.Node, file, prefix string) {
	if node == nil {
		return
	}
	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, val := node.Content[i].Value, node.Content[i+1]
			if prefix != "" {
				key = prefix + "." + key
			}
			l.sources[key] = fileSource(file, val)
			l.record(val, file, key)
		}
	case yaml.SequenceNode:
		if prefix != "" {
			l.sources[prefix] = fileSource(file, node)
		}
	}
}

func fileSource(file string, n *yaml.Node) Source {
	return Source{Kind: SourceFile, File: file, Line: n.Line, Column: n.Column}
}

type includeEntry struct {
	value string
	at    Source
}

// includeEntries lists the include: targets of root in file order. The
// strict decode has already rejected non-string entries.
func includeEntries(root *yaml.Node, file string) []includeEntry {
	if root == nil || root.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "include" {
			continue
		}
		val := root.Content[i+1]
		items := []*yaml.Node{val}
		if val.Kind == yaml.SequenceNode {
			items = val.Content
		}
		var out []includeEntry
		for _, item := range items {
			if item.Kind == yaml.ScalarNode {
				out = append(out, includeEntry{value: item.Value, at: fileSource(file, item)})
			}
		}
		return out
	}
	return nil
}

// expandInclude resolves target relative to the including file. A
// directory expands to its .yaml/.yml files in name order.
func expandInclude(from, target string) ([]string, error) {
	if target == "" {
		return nil, fmt.Errorf("path is empty")
	}
	if target == "~" || strings.HasPrefix(target, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		target = filepath.Join(home, strings.TrimPrefix(target, "~"))
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(from), target)
	}

	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{target}, nil
	}

	entries, err := os.ReadDir(target)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, ent := range entries {
		switch strings.ToLower(filepath.Ext(ent.Name())) {
		case ".yaml", ".yml":
			if !ent.IsDir() {
				files = append(files, filepath.Join(target, ent.Name()))
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// canonicalPath returns the absolute, symlink-free form of path, or just
// the absolute form when the target does not exist yet.
func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real, nil
	}
	return abs, nil
}

// withSource fills in the file position of a *ValidationError from sources.
func withSource(err error, sources map[string]Source) error {
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path == "" {
		return err
	}
	if src, ok := sources[verr.Path]; ok {
		verr.Source = src
	}
	return err
}
