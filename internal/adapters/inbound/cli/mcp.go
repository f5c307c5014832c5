package cli

import (
	mcpadapter "github.com/abdidvp/hexagonal/internal/adapters/inbound/mcp"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newMCPCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the users MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd(opts))
	return cmd
}

func newMCPServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the users MCP server (stdio)",
		Long:  "Start the MCP server on stdio so AI assistants can register, look up, update and delete users.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, cmd.ErrOrStderr(), func(a *app) error {
				s := mcpadapter.NewUsersMCPServer(a.svc, version)
				return server.ServeStdio(s)
			})
		},
	}
}
