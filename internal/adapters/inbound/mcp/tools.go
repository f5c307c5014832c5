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

// registerTools registers every users tool on the given server.
func registerTools(s *server.MCPServer, svc *application.UserService) {
	s.AddTool(
		mcplib.NewTool("users_register",
			mcplib.WithDescription("Register a new user. Fails if the email is already taken."),
			mcplib.WithString("email", mcplib.Required(), mcplib.Description("Email address")),
			mcplib.WithString("name", mcplib.Required(), mcplib.Description("Display name")),
		),
		handleRegister(svc),
	)

	s.AddTool(
		mcplib.NewTool("users_get",
			mcplib.WithDescription("Return a user by id"),
			mcplib.WithString("id", mcplib.Required(), mcplib.Description("User id (UUID)")),
		),
		handleGet(svc),
	)

	s.AddTool(
		mcplib.NewTool("users_get_by_email",
			mcplib.WithDescription("Return a user by email address"),
			mcplib.WithString("email", mcplib.Required(), mcplib.Description("Email address")),
		),
		handleGetByEmail(svc),
	)

	s.AddTool(
		mcplib.NewTool("users_update_name",
			mcplib.WithDescription("Change a user's display name"),
			mcplib.WithString("id", mcplib.Required(), mcplib.Description("User id (UUID)")),
			mcplib.WithString("name", mcplib.Required(), mcplib.Description("New display name")),
		),
		handleUpdateName(svc),
	)

	s.AddTool(
		mcplib.NewTool("users_update_email",
			mcplib.WithDescription("Move a user to a new email address"),
			mcplib.WithString("id", mcplib.Required(), mcplib.Description("User id (UUID)")),
			mcplib.WithString("email", mcplib.Required(), mcplib.Description("New email address")),
		),
		handleUpdateEmail(svc),
	)

	s.AddTool(
		mcplib.NewTool("users_delete",
			mcplib.WithDescription("Delete a user by id"),
			mcplib.WithString("id", mcplib.Required(), mcplib.Description("User id (UUID)")),
		),
		handleDelete(svc),
	)

	s.AddTool(
		mcplib.NewTool("users_list",
			mcplib.WithDescription("List every user"),
		),
		handleList(svc),
	)
}

func handleRegister(svc *application.UserService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		email, err := request.RequireString("email")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		name, err := request.RequireString("name")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		user, err := svc.Register(ctx, email, name)
		if err != nil {
			return domainErrorResult(err), nil
		}
		return jsonResult(user)
	}
}

func handleGet(svc *application.UserService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		id, errResult := requireID(request)
		if errResult != nil {
			return errResult, nil
		}

		user, err := svc.GetByID(ctx, id)
		if err != nil {
			return domainErrorResult(err), nil
		}
		return jsonResult(user)
	}
}

func handleGetByEmail(svc *application.UserService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		email, err := request.RequireString("email")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		user, err := svc.GetByEmail(ctx, email)
		if err != nil {
			return domainErrorResult(err), nil
		}
		return jsonResult(user)
	}
}

func handleUpdateName(svc *application.UserService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		id, errResult := requireID(request)
		if errResult != nil {
			return errResult, nil
		}
		name, err := request.RequireString("name")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		user, err := svc.UpdateName(ctx, id, name)
		if err != nil {
			return domainErrorResult(err), nil
		}
		return jsonResult(user)
	}
}

func handleUpdateEmail(svc *application.UserService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		id, errResult := requireID(request)
		if errResult != nil {
			return errResult, nil
		}
		email, err := request.RequireString("email")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		user, err := svc.UpdateEmail(ctx, id, email)
		if err != nil {
			return domainErrorResult(err), nil
		}
		return jsonResult(user)
	}
}

func handleDelete(svc *application.UserService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		id, errResult := requireID(request)
		if errResult != nil {
			return errResult, nil
		}

		if err := svc.Delete(ctx, id); err != nil {
			return domainErrorResult(err), nil
		}
		return textResult(fmt.Sprintf("deleted user %s", id)), nil
	}
}

func handleList(svc *application.UserService) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		users, err := svc.List(ctx)
		if err != nil {
			return domainErrorResult(err), nil
		}
		return jsonResult(users)
	}
}

func requireID(request mcplib.CallToolRequest) (domain.UserID, *mcplib.CallToolResult) {
	raw, err := request.RequireString("id")
	if err != nil {
		return domain.UserID{}, errorResult(err.Error())
	}
	id, err := domain.ParseUserID(raw)
	if err != nil {
		return domain.UserID{}, domainErrorResult(err)
	}
	return id, nil
}

func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

func textResult(text string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(text)},
	}
}

func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}

// domainErrorResult hides infrastructure details the same way the HTTP API does.
func domainErrorResult(err error) *mcplib.CallToolResult {
	kind := domain.KindOf(err)
	if kind == domain.KindInfrastructure {
		return errorResult("infrastructure: internal error")
	}
	return errorResult(fmt.Sprintf("%s: %v", kind, err))
}
