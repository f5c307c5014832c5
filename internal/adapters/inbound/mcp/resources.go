package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/abdidvp/hexagonal/internal/application"
	"github.com/abdidvp/hexagonal/internal/domain"
)

const usersURI = "users://list"

// registerResources registers the read-only user resources.
func registerResources(s *server.MCPServer, svc *application.UserService) {
	s.AddResource(
		mcplib.NewResource(
			usersURI,
			"Users",
			mcplib.WithResourceDescription("Every registered user"),
			mcplib.WithMIMEType("application/json"),
		),
		handleUsersResource(svc),
	)

	s.AddResourceTemplate(
		mcplib.NewResourceTemplate(
			"users://{id}",
			"User",
			mcplib.WithTemplateDescription("A single user by id"),
			mcplib.WithTemplateMIMEType("application/json"),
		),
		handleUserResource(svc),
	)
}

func handleUsersResource(svc *application.UserService) server.ResourceHandlerFunc {
	return func(ctx context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		users, err := svc.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing users: %w", err)
		}
		return jsonContents(usersURI, users)
	}
}

func handleUserResource(svc *application.UserService) server.ResourceTemplateHandlerFunc {
	return func(ctx context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		raw := templateArg(request.Params.Arguments, "id")
		if raw == "" {
			return nil, fmt.Errorf("user id is required")
		}
		id, err := domain.ParseUserID(raw)
		if err != nil {
			return nil, err
		}

		user, err := svc.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("getting user: %w", err)
		}
		return jsonContents(request.Params.URI, user)
	}
}

// templateArg reads a URI template variable. Matched values arrive as a
// string slice.
func templateArg(args map[string]any, name string) string {
	switch v := args[name].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func jsonContents(uri string, v any) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
