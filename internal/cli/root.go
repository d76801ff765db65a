package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gonogo",
		Short:         "Checklist go/no-go de eventos AC/AB",
		Long:          "gonogo evalúa un snapshot de evento (JSON) contra el checklist de preparación, sin servidor ni base de datos.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newEvaluateCmd())
	cmd.AddCommand(newForceCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// NewRootCmdForTest devuelve el comando raíz para tests.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Imprime la versión",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "gonogo "+version)
		},
	}
}
