package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "indiestore",
		Short:        "IndieStore catalog and order intake API",
		SilenceUsage: true,
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	seed := &cobra.Command{
		Use:   "seed",
		Short: "Insert the sample catalog when the store is empty",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context())
		},
	}

	var importFile string
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Bulk-create products from an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), importFile)
		},
	}
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "path to the xlsx workbook")
	_ = importCmd.MarkFlagRequired("file")

	root.AddCommand(serve, seed, importCmd, &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	})

	return root
}
