package cmd

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileReader reads input documents.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

// FileIO reads input documents and writes output documents.
type FileIO interface {
	FileReader
	// StatFile reports whether path exists. It errors only for unexpected OS errors.
	StatFile(path string) (bool, error)
	// WriteFileAtomic replaces path with data via a temp file rename.
	WriteFileAtomic(path string, data []byte) error
}

// osFileIO implements FileIO using OS file I/O.
// *Impl methods wrap OS calls and are excluded from coverage requirements.
type osFileIO struct{}

func newDefaultFileIO() *osFileIO {
	return &osFileIO{}
}

// ReadFile reads the file at path.
func (f *osFileIO) ReadFile(path string) ([]byte, error) {
	return f.ReadFileImpl(path)
}

// ReadFileImpl wraps os.ReadFile.
func (f *osFileIO) ReadFileImpl(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// StatFile returns true if the file at path exists, false if it does not.
func (f *osFileIO) StatFile(path string) (bool, error) {
	return f.StatFileImpl(path)
}

// StatFileImpl wraps os.Stat to check file existence.
func (f *osFileIO) StatFileImpl(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// WriteFileAtomic writes data to path atomically via a temp file with 0600 permissions.
func (f *osFileIO) WriteFileAtomic(path string, data []byte) error {
	return f.WriteFileAtomicImpl(path, data)
}

// WriteFileAtomicImpl performs the atomic write via OS temp file rename.
func (f *osFileIO) WriteFileAtomicImpl(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".sldv-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err = os.Chmod(tmpName, 0600); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
