package cli_test

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/abdidvp/hexagonal/internal/adapters/inbound/cli"
	"github.com/abdidvp/hexagonal/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userJSON struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// run executes the CLI against a file store in a temp dir.
func run(t *testing.T, storePath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := cli.NewRootCmdForTest()
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	base := []string{"--config-dir", filepath.Dir(storePath), "--storage-path", storePath}
	cmd.SetArgs(append(args, base...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func newStore(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "users.json")
}

func createUser(t *testing.T, store, email, name string) userJSON {
	t.Helper()
	out, _, err := run(t, store, "create-user", "--email", email, "--name", name, "--json")
	require.NoError(t, err)
	var u userJSON
	require.NoError(t, json.Unmarshal([]byte(out), &u))
	return u
}

func TestVersionCommand(t *testing.T) {
	cmd := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "hexagonal dev")
}

func TestCreateUser_SendsWelcomeEmail(t *testing.T) {
	store := newStore(t)
	out, stderr, err := run(t, store, "create-user", "--email", "Ada@Example.com", "--name", "Ada")
	require.NoError(t, err)
	assert.Contains(t, out, "ada@example.com")
	assert.Contains(t, out, "Ada")
	assert.Contains(t, stderr, "========== EMAIL ==========")
	assert.Contains(t, stderr, "Subject: Welcome!")
}

func TestCreateUser_Duplicate(t *testing.T) {
	store := newStore(t)
	createUser(t, store, "a@b.com", "A")

	_, _, err := run(t, store, "create-user", "--email", "a@b.com", "--name", "B")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreateUser_InvalidEmail(t *testing.T) {
	_, _, err := run(t, newStore(t), "create-user", "--email", "a@b", "--name", "B")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateUser_RequiresFlags(t *testing.T) {
	_, _, err := run(t, newStore(t), "create-user", "--email", "a@b.com")
	assert.Error(t, err)
}

func TestGetUser(t *testing.T) {
	store := newStore(t)
	created := createUser(t, store, "a@b.com", "A")

	out, _, err := run(t, store, "get-user", "--id", created.ID, "--json")
	require.NoError(t, err)
	var byID userJSON
	require.NoError(t, json.Unmarshal([]byte(out), &byID))
	assert.Equal(t, created, byID)

	out, _, err = run(t, store, "get-user", "--email", "A@B.com")
	require.NoError(t, err)
	assert.Contains(t, out, created.ID)

	_, _, err = run(t, store, "get-user", "--id", domain.NewUserID().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, _, err = run(t, store, "get-user")
	assert.Error(t, err)
}

func TestListUsers(t *testing.T) {
	store := newStore(t)
	createUser(t, store, "a@b.com", "A")
	createUser(t, store, "c@d.com", "C")

	out, _, err := run(t, store, "list-users", "--json")
	require.NoError(t, err)
	var users []userJSON
	require.NoError(t, json.Unmarshal([]byte(out), &users))
	assert.Len(t, users, 2)

	out, _, err = run(t, store, "list-users")
	require.NoError(t, err)
	assert.Contains(t, out, "2 total")
}

func TestUpdateUser(t *testing.T) {
	store := newStore(t)
	created := createUser(t, store, "a@b.com", "A")

	out, _, err := run(t, store, "update-user", "--id", created.ID, "--name", "Renamed", "--email", "new@b.com", "--json")
	require.NoError(t, err)
	var updated userJSON
	require.NoError(t, json.Unmarshal([]byte(out), &updated))
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "new@b.com", updated.Email)

	_, _, err = run(t, store, "update-user", "--id", created.ID)
	assert.Error(t, err)
}

func TestDeleteUser(t *testing.T) {
	store := newStore(t)
	created := createUser(t, store, "a@b.com", "A")

	out, _, err := run(t, store, "delete-user", "--id", created.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "deleted user")

	_, _, err = run(t, store, "delete-user", "--id", created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, _, err = run(t, store, "delete-user", "--id", "bogus")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestServeCommandExists(t *testing.T) {
	cmd := cli.NewRootCmdForTest()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetArgs([]string{"serve", "--help"})
	assert.NoError(t, cmd.Execute())
}
