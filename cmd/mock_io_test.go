package cmd

import (
	"bytes"
	"os"

	"github.com/spf13/cobra"
)

// mockFileIO is an in-memory FileIO keyed by path.
type mockFileIO struct {
	files    map[string][]byte
	readErr  map[string]error
	statErr  error
	writeErr error
	written  map[string][]byte
}

func newMockFileIO() *mockFileIO {
	return &mockFileIO{
		files:   make(map[string][]byte),
		readErr: make(map[string]error),
		written: make(map[string][]byte),
	}
}

func (m *mockFileIO) with(path, content string) *mockFileIO {
	m.files[path] = []byte(content)
	return m
}

func (m *mockFileIO) ReadFile(path string) ([]byte, error) {
	if err, ok := m.readErr[path]; ok {
		return nil, err
	}
	data, ok := m.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

func (m *mockFileIO) StatFile(path string) (bool, error) {
	if m.statErr != nil {
		return false, m.statErr
	}
	_, ok := m.files[path]
	return ok, nil
}

func (m *mockFileIO) WriteFileAtomic(path string, data []byte) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.written[path] = append([]byte(nil), data...)
	m.files[path] = m.written[path]
	return nil
}

// run executes c with args and returns its captured stdout and stderr.
func run(c *cobra.Command, args ...string) (string, string, error) {
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	c.SetOut(out)
	c.SetErr(errOut)
	c.SetArgs(args)
	err := c.Execute()
	return out.String(), errOut.String(), err
}
