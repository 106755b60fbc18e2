package main

import (
	"fmt"
	"os"

	"github.com/beneficios/backoffice/meta"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          meta.Name,
		Short:        meta.Description,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringP("config", "c", "config.toml", "path to the config file")
	root.AddCommand(newServeCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s %s (%s, built %s)\n", meta.Name, meta.Version, meta.Commit, meta.BuildDate)
		},
	}
}
