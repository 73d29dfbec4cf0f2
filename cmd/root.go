// Package cmd is the main command file for Cobra
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/biker2000on/gnucash-web-sub001/cmd/balance"
	"github.com/biker2000on/gnucash-web-sub001/cmd/check"
	"github.com/biker2000on/gnucash-web-sub001/cmd/export"
	"github.com/biker2000on/gnucash-web-sub001/cmd/importer"
	"github.com/biker2000on/gnucash-web-sub001/cmd/rates"
)

var rootCmd = &cobra.Command{
	Use:   "gcbook",
	Short: "gcbook is a double-entry bookkeeping tool",
	Long:  `gcbook keeps double-entry books in an SQLite database and exchanges them with other accounting tools through the gnc-v2 interchange format.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(importer.CreateCmd())
	rootCmd.AddCommand(export.CreateCmd())
	rootCmd.AddCommand(check.CreateCmd())
	rootCmd.AddCommand(balance.CreateCmd())
	rootCmd.AddCommand(rates.CreateCmd())
}
