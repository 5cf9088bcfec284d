// Package conformance_test runs the sldv binary against the fixtures under
// testdata/. Each fixture directory holds the input files, a case.json naming
// the command line and expected exit code, and optionally expected-stdout.json
// (recursive subset match) or expected-stdout.txt (exact match after trimming).
//
// TestMain builds the sldv binary once into a temporary directory before any
// test runs, then removes the directory on exit.
package conformance_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// sldvBinary is the absolute path to the compiled sldv binary, set by TestMain.
var sldvBinary string

const fixturesRoot = "testdata"

// fixtureCase is the content of a fixture's case.json.
type fixtureCase struct {
	Args     []string `json:"args"`
	ExitCode int      `json:"exitCode"`
}

func TestMain(m *testing.M) {
	repoRoot, err := filepath.Abs("..")
	if err != nil {
		fmt.Fprintf(os.Stderr, "filepath.Abs: %v\n", err)
		os.Exit(1)
	}

	tmpDir, err := os.MkdirTemp("", "conformance-sldv-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "os.MkdirTemp: %v\n", err)
		os.Exit(1)
	}

	sldvBinary = filepath.Join(tmpDir, "sldv")
	build := exec.Command("go", "build", "-o", sldvBinary, ".")
	build.Dir = repoRoot
	if out, err := build.CombinedOutput(); err != nil {
		fmt.Fprintf(os.Stderr, "go build failed: %v\n%s\n", err, out)
		os.RemoveAll(tmpDir)
		os.Exit(1)
	}

	code := m.Run()
	os.RemoveAll(tmpDir)
	os.Exit(code)
}

// TestConformance_Fixtures runs every fixture directory under testdata/.
func TestConformance_Fixtures(t *testing.T) {
	entries, err := os.ReadDir(fixturesRoot)
	if err != nil {
		t.Fatalf("os.ReadDir(%s): %v", fixturesRoot, err)
	}

	ran := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		fixturePath := filepath.Join(fixturesRoot, entry.Name())
		t.Run(entry.Name(), func(t *testing.T) {
			runFixture(t, fixturePath)
		})
		ran++
	}
	if ran == 0 {
		t.Fatal("no fixtures found")
	}
}

// runFixture copies the fixture into a scratch directory, runs sldv there and
// checks exit code and stdout.
func runFixture(t *testing.T, fixturePath string) {
	t.Helper()

	skipIfMissingFiles(t, fixturePath, []string{"case.json"})

	raw, err := os.ReadFile(filepath.Join(fixturePath, "case.json"))
	if err != nil {
		t.Fatalf("read case.json: %v", err)
	}
	var fc fixtureCase
	if err := json.Unmarshal(raw, &fc); err != nil {
		t.Fatalf("parse case.json: %v", err)
	}

	workDir := t.TempDir()
	copyFixture(t, fixturePath, workDir)

	cmd := exec.Command(sldvBinary, fc.Args...)
	cmd.Dir = workDir
	var stderr strings.Builder
	cmd.Stderr = &stderr
	stdout, runErr := cmd.Output()

	exitCode := 0
	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
	case errors.As(runErr, &exitErr):
		exitCode = exitErr.ExitCode()
	default:
		t.Fatalf("sldv %s: %v", strings.Join(fc.Args, " "), runErr)
	}
	if exitCode != fc.ExitCode {
		t.Fatalf("exit code = %d, want %d\nstdout: %s\nstderr: %s", exitCode, fc.ExitCode, stdout, stderr.String())
	}

	if want, err := os.ReadFile(filepath.Join(fixturePath, "expected-stdout.txt")); err == nil {
		if got := strings.TrimSpace(string(stdout)); got != strings.TrimSpace(string(want)) {
			t.Errorf("stdout mismatch\n got: %s\nwant: %s", got, strings.TrimSpace(string(want)))
		}
	}
	if want, err := os.ReadFile(filepath.Join(fixturePath, "expected-stdout.json")); err == nil {
		checkJSONSubset(t, "stdout", want, stdout)
	}
	if want, err := os.ReadFile(filepath.Join(fixturePath, "expected-stderr.txt")); err == nil {
		if !strings.Contains(stderr.String(), strings.TrimSpace(string(want))) {
			t.Errorf("stderr %q does not contain %q", stderr.String(), strings.TrimSpace(string(want)))
		}
	}
}

// skipIfMissingFiles skips the test if any of the named files are absent from dir.
func skipIfMissingFiles(t *testing.T, dir string, files []string) {
	t.Helper()
	for _, f := range files {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			t.Skipf("required file %q missing; skipping", f)
		}
	}
}

// checkJSONSubset asserts that every key-value pair in expectedJSON also
// appears in actualJSON. Arrays must match in length.
func checkJSONSubset(t *testing.T, label string, expectedJSON, actualJSON []byte) {
	t.Helper()
	var expected, actual interface{}
	if err := json.Unmarshal(expectedJSON, &expected); err != nil {
		t.Errorf("%s: unmarshal expected JSON: %v", label, err)
		return
	}
	if err := json.Unmarshal(actualJSON, &actual); err != nil {
		t.Errorf("%s: unmarshal actual JSON: %v\n%s", label, err, actualJSON)
		return
	}
	jsonSubsetEqual(t, label, expected, actual)
}

// jsonSubsetEqual recursively checks that expected is a subset of actual.
func jsonSubsetEqual(t *testing.T, path string, expected, actual interface{}) bool {
	t.Helper()
	switch e := expected.(type) {
	case map[string]interface{}:
		a, ok := actual.(map[string]interface{})
		if !ok {
			t.Errorf("%s: expected JSON object, got %T (%v)", path, actual, actual)
			return false
		}
		allOK := true
		for k, ev := range e {
			av, exists := a[k]
			if !exists {
				t.Errorf("%s.%s: key missing in actual", path, k)
				allOK = false
				continue
			}
			if !jsonSubsetEqual(t, path+"."+k, ev, av) {
				allOK = false
			}
		}
		return allOK
	case []interface{}:
		a, ok := actual.([]interface{})
		if !ok {
			t.Errorf("%s: expected JSON array, got %T (%v)", path, actual, actual)
			return false
		}
		if len(e) != len(a) {
			t.Errorf("%s: array length: expected %d, got %d", path, len(e), len(a))
			return false
		}
		allOK := true
		for i := range e {
			if !jsonSubsetEqual(t, fmt.Sprintf("%s[%d]", path, i), e[i], a[i]) {
				allOK = false
			}
		}
		return allOK
	case nil:
		if actual != nil {
			t.Errorf("%s: expected null, got %v", path, actual)
			return false
		}
		return true
	default:
		if expected != actual {
			t.Errorf("%s: expected %v (%T), got %v (%T)", path, expected, expected, actual, actual)
			return false
		}
		return true
	}
}

// copyFixture copies the fixture's input files into dir, leaving out the
// runner's own files.
func copyFixture(t *testing.T, fixturePath, dir string) {
	t.Helper()
	entries, err := os.ReadDir(fixturePath)
	if err != nil {
		t.Fatalf("os.ReadDir(%s): %v", fixturePath, err)
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == "case.json" || strings.HasPrefix(name, "expected-") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(fixturePath, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}
