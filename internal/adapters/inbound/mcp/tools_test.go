package mcp

import (
	"context"
	"encoding/json"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdidvp/hexagonal/internal/adapters/outbound/email"
	"github.com/abdidvp/hexagonal/internal/adapters/outbound/memory"
	"github.com/abdidvp/hexagonal/internal/application"
	"github.com/abdidvp/hexagonal/internal/domain"
)

func newTestService(t *testing.T) *application.UserService {
	t.Helper()
	svc := application.NewUserService(memory.New(), email.NewNoop(), nil, nil)
	t.Cleanup(func() { _ = svc.Shutdown(context.Background()) })
	return svc
}

func call(t *testing.T, h server.ToolHandlerFunc, args map[string]any) *mcplib.CallToolResult {
	t.Helper()
	req := mcplib.CallToolRequest{}
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func text(t *testing.T, res *mcplib.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcplib.TextContent)
	require.True(t, ok)
	return tc.Text
}

func register(t *testing.T, svc *application.UserService, email, name string) domain.User {
	t.Helper()
	res := call(t, handleRegister(svc), map[string]any{"email": email, "name": name})
	require.False(t, res.IsError, text(t, res))
	var u domain.User
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &u))
	return u
}

func TestHandleRegister(t *testing.T) {
	svc := newTestService(t)
	u := register(t, svc, "Ada@Example.com", "Ada")
	assert.Equal(t, "ada@example.com", u.Email.String())

	res := call(t, handleRegister(svc), map[string]any{"email": "ada@example.com", "name": "Again"})
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "conflict")

	res = call(t, handleRegister(svc), map[string]any{"name": "NoEmail"})
	assert.True(t, res.IsError)
}

func TestHandleGetAndGetByEmail(t *testing.T) {
	svc := newTestService(t)
	u := register(t, svc, "a@b.com", "A")

	res := call(t, handleGet(svc), map[string]any{"id": u.ID.String()})
	assert.False(t, res.IsError)
	assert.Contains(t, text(t, res), u.ID.String())

	res = call(t, handleGetByEmail(svc), map[string]any{"email": "A@B.COM"})
	assert.False(t, res.IsError)
	assert.Contains(t, text(t, res), u.ID.String())

	res = call(t, handleGet(svc), map[string]any{"id": domain.NewUserID().String()})
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "not_found")

	res = call(t, handleGet(svc), map[string]any{"id": "xyz"})
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "validation")
}

func TestHandleUpdates(t *testing.T) {
	svc := newTestService(t)
	u := register(t, svc, "a@b.com", "A")

	res := call(t, handleUpdateName(svc), map[string]any{"id": u.ID.String(), "name": "Renamed"})
	require.False(t, res.IsError, text(t, res))
	assert.Contains(t, text(t, res), "Renamed")

	res = call(t, handleUpdateEmail(svc), map[string]any{"id": u.ID.String(), "email": "new@b.com"})
	require.False(t, res.IsError, text(t, res))
	assert.Contains(t, text(t, res), "new@b.com")
}

func TestHandleDeleteAndList(t *testing.T) {
	svc := newTestService(t)
	u := register(t, svc, "a@b.com", "A")
	register(t, svc, "c@d.com", "C")

	res := call(t, handleList(svc), nil)
	var users []domain.User
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &users))
	assert.Len(t, users, 2)

	res = call(t, handleDelete(svc), map[string]any{"id": u.ID.String()})
	assert.False(t, res.IsError)
	assert.Contains(t, text(t, res), "deleted user")

	res = call(t, handleDelete(svc), map[string]any{"id": u.ID.String()})
	assert.True(t, res.IsError)
}

func TestHandleUserResource(t *testing.T) {
	svc := newTestService(t)
	u := register(t, svc, "a@b.com", "A")

	req := mcplib.ReadResourceRequest{}
	req.Params.URI = "users://" + u.ID.String()
	req.Params.Arguments = map[string]any{"id": []string{u.ID.String()}}

	contents, err := handleUserResource(svc)(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, contents, 1)
	tc, ok := contents[0].(mcplib.TextResourceContents)
	require.True(t, ok)
	assert.Contains(t, tc.Text, "a@b.com")

	list, err := handleUsersResource(svc)(context.Background(), mcplib.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestTemplateArg(t *testing.T) {
	assert.Equal(t, "x", templateArg(map[string]any{"id": "x"}, "id"))
	assert.Equal(t, "y", templateArg(map[string]any{"id": []string{"y"}}, "id"))
	assert.Empty(t, templateArg(map[string]any{}, "id"))
}
