package main_test

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build binary before running tests
	dir, err := os.MkdirTemp("", "hexagonal-e2e")
	if err != nil {
		panic(err)
	}

	binaryPath = filepath.Join(dir, "hexagonal")
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	if out, err := cmd.CombinedOutput(); err != nil {
		os.RemoveAll(dir)
		panic("build failed: " + string(out))
	}

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

// run executes the binary with the testdata config and a private store.
func run(t *testing.T, store string, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()
	configDir, err := filepath.Abs(filepath.Join("testdata", "config"))
	require.NoError(t, err)

	args = append(args, "--config-dir", configDir, "--storage-path", store)
	cmd := exec.Command(binaryPath, args...)
	var outBuf, errBuf strings.Builder
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err = cmd.Run()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
	}
	return outBuf.String(), errBuf.String(), exitCode
}

func TestE2E_UserLifecycle(t *testing.T) {
	store := filepath.Join(t.TempDir(), "users.json")

	out, stderr, code := run(t, store, "create-user", "--email", "Grace@Example.com", "--name", "Grace", "--json")
	require.Equal(t, 0, code, stderr)
	var created struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, "grace@example.com", created.Email)
	assert.Contains(t, stderr, "From: e2e@example.com")
	assert.Contains(t, stderr, `"span":"UserService.Register"`)

	_, stderr, code = run(t, store, "create-user", "--email", "grace@example.com", "--name", "Again")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "already registered")

	out, _, code = run(t, store, "list-users")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "1 total")

	_, _, code = run(t, store, "delete-user", "--id", created.ID)
	assert.Equal(t, 0, code)

	_, stderr, code = run(t, store, "get-user", "--id", created.ID)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "not found")
}

func TestE2E_Version(t *testing.T) {
	out, _, code := run(t, filepath.Join(t.TempDir(), "users.json"), "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "hexagonal")
}
