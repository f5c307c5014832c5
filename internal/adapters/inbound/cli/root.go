package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abdidvp/hexagonal/internal/adapters/outbound/tui"
)

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "hexagonal",
		Short:         "Users service built on ports and adapters",
		Long:          "hexagonal manages users through a domain service that is independent of its HTTP, CLI and MCP front ends and of its storage backend.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configDir, "config-dir", "config", "Directory holding default.yaml, <environment>.yaml and local.yaml")
	cmd.PersistentFlags().StringVar(&opts.storagePath, "storage-path", "", "Use the file backend at this path, overriding config")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newCreateUserCmd(opts))
	cmd.AddCommand(newGetUserCmd(opts))
	cmd.AddCommand(newListUsersCmd(opts))
	cmd.AddCommand(newUpdateUserCmd(opts))
	cmd.AddCommand(newDeleteUserCmd(opts))
	cmd.AddCommand(newMCPCmd(opts))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprint(os.Stderr, tui.RenderError(err))
	}
	return err
}
