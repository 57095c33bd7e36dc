package vm

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ProgramExt is the extension of serialized, already linked programs.
const ProgramExt = ".svm"

func LoadFile(name string, r io.Reader) (*Program, error) {
	f, err := fileOptions().Parse(name, r, 0)
	if err != nil {
		return nil, err
	}
	return Compile(f)
}

// LoadPath returns the program stored at path, compiling it unless it is a
// serialized program.
func LoadPath(path string) (*Program, error) {
	if filepath.Ext(path) != ProgramExt {
		return CompilePath(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p := &Program{}
	if err := p.Deserialize(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func WritePath(p *Program, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = p.Serialize(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
