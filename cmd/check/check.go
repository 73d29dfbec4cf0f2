// Package check implements the check command.
package check

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/biker2000on/gnucash-web-sub001/lib/check"
	"github.com/biker2000on/gnucash-web-sub001/lib/config"
	"github.com/biker2000on/gnucash-web-sub001/lib/model/registry"
	"github.com/biker2000on/gnucash-web-sub001/lib/server/database"
	"github.com/biker2000on/gnucash-web-sub001/lib/server/repo"
)

// CreateCmd creates the command.
func CreateCmd() *cobra.Command {
	var r runner
	c := &cobra.Command{
		Use:   "check",
		Short: "validate all transactions",
		Long:  `Validate every stored transaction against the double-entry rules and report the problems found.`,
		Args:  cobra.NoArgs,
		RunE:  r.execute,
	}
	r.setupFlags(c)
	return c
}

type runner struct {
	config  string
	verbose bool
}

func (r *runner) setupFlags(c *cobra.Command) {
	c.Flags().StringVarP(&r.config, "config", "c", "", "config file")
	c.Flags().BoolVarP(&r.verbose, "verbose", "v", false, "also list valid transactions")
}

func (r *runner) execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := config.Load(r.config)
	if err != nil {
		return err
	}
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	book, err := repo.LoadBook(ctx, db, registry.New())
	if err != nil {
		return err
	}

	results := make([]check.Result, len(book.Transactions))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, t := range book.Transactions {
		i, t := i, t
		g.Go(func() error {
			results[i] = check.Transaction(t)
			return nil
		})
	}
	g.Wait()

	var (
		green   = color.New(color.FgGreen)
		red     = color.New(color.FgRed)
		invalid int
		out     = cmd.OutOrStdout()
	)
	for i, res := range results {
		t := book.Transactions[i]
		if res.Valid {
			if r.verbose {
				green.Fprintf(out, "ok      %s %s\n", t.GUID, t)
			}
			continue
		}
		invalid++
		red.Fprintf(out, "invalid %s %s\n", t.GUID, t)
		for _, e := range res.Errors {
			fmt.Fprintf(out, "        %s: %s\n", e.Field, e.Msg)
		}
	}
	if invalid > 0 {
		return fmt.Errorf("%d of %d transactions are invalid", invalid, len(book.Transactions))
	}
	fmt.Fprintf(out, "%d transactions checked, all valid\n", len(book.Transactions))
	return nil
}
