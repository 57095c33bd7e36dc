package model

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"github.com/timewinder-dev/scopevm/cas"
	"github.com/timewinder-dev/scopevm/vm"
	"gopkg.in/yaml.v3"
)

// Spec describes a single run: which program, under which limits, and what
// it is expected to do.
type Spec struct {
	Program ProgramSpec `toml:"program" yaml:"program"`
	Limits  Limits      `toml:"limits" yaml:"limits"`
	Expect  Expect      `toml:"expect" yaml:"expect"`
}

type ProgramSpec struct {
	File string `toml:"file,omitempty" yaml:"file,omitempty"`
}

type Limits struct {
	// MaxStackDepth bounds the value stack; 0 is unbounded.
	MaxStackDepth int `toml:"max_stack_depth" yaml:"max_stack_depth"`
	// MaxSteps bounds the number of executed instructions; 0 is unlimited.
	MaxSteps int `toml:"max_steps" yaml:"max_steps"`
	// DetectLoops aborts the run as soon as a machine state repeats.
	DetectLoops bool `toml:"detect_loops" yaml:"detect_loops"`
	// CacheSize is the number of snapshot entries kept in memory.
	CacheSize int `toml:"cache_size" yaml:"cache_size"`
}

// Expect is compared against a Result by Result.Check. Nil fields are not
// checked.
type Expect struct {
	Output *string `toml:"output,omitempty" yaml:"output,omitempty"`
	Error  *string `toml:"error,omitempty" yaml:"error,omitempty"`
}

func parseTOML(f io.Reader) (*Spec, error) {
	var out Spec
	md, err := toml.NewDecoder(f).Decode(&out)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys in spec: %s", strings.Join(keys, ", "))
	}
	return &out, nil
}

func parseYAML(f io.Reader) (*Spec, error) {
	var out Spec
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	err := dec.Decode(&out)
	if err == io.EOF {
		return &out, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// IsSpecFile reports whether path names a run spec rather than a program.
func IsSpecFile(path string) bool {
	switch filepath.Ext(path) {
	case ".toml", ".yaml", ".yml":
		return true
	}
	return false
}

func LoadSpecFromFile(path string) (*Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var s *Spec
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		s, err = parseYAML(f)
	default:
		s, err = parseTOML(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if s.Program.File == "" {
		base := filepath.Base(path)
		s.Program.File = strings.TrimSuffix(base, filepath.Ext(base)) + ".star"
	}
	if !filepath.IsAbs(s.Program.File) {
		s.Program.File = filepath.Join(filepath.Dir(path), s.Program.File)
	}
	s.Program.File = filepath.Clean(s.Program.File)
	return s, nil
}

// DefaultSpec runs the program at path with no limits and no expectations.
func DefaultSpec(path string) *Spec {
	return &Spec{Program: ProgramSpec{File: path}}
}

// BuildExecutor loads the program and prepares an executor. A nil store gets
// a fresh in-memory store sized by the spec's cache size.
func (s *Spec) BuildExecutor(store cas.CAS) (*Executor, error) {
	p, err := vm.LoadPath(s.Program.File)
	if err != nil {
		return nil, err
	}
	return NewExecutor(p, s, store), nil
}

func NewExecutor(p *vm.Program, s *Spec, store cas.CAS) *Executor {
	if s == nil {
		s = DefaultSpec(p.Filename)
	}
	if store == nil {
		store = cas.NewLRUCache(cas.NewMemoryCAS(), s.Limits.CacheSize)
	}
	return &Executor{
		Program:  p,
		Spec:     s,
		Store:    store,
		RunID:    uuid.New(),
		Reporter: &SilentReporter{},
	}
}
