// Package export implements the export command.
package export

import (
	"bytes"
	"fmt"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/biker2000on/gnucash-web-sub001/lib/config"
	"github.com/biker2000on/gnucash-web-sub001/lib/interchange"
	"github.com/biker2000on/gnucash-web-sub001/lib/model/registry"
	"github.com/biker2000on/gnucash-web-sub001/lib/server/database"
	"github.com/biker2000on/gnucash-web-sub001/lib/server/repo"
)

// CreateCmd creates the command.
func CreateCmd() *cobra.Command {
	var r runner
	c := &cobra.Command{
		Use:   "export <file>",
		Short: "export the book",
		Long:  `Export the stored book as a gnc-v2 document. The file is written atomically, so an aborted export never leaves a truncated document.`,
		Args:  cobra.ExactArgs(1),
		RunE:  r.execute,
	}
	r.setupFlags(c)
	return c
}

type runner struct {
	config   string
	compress bool
}

func (r *runner) setupFlags(c *cobra.Command) {
	c.Flags().StringVarP(&r.config, "config", "c", "", "config file")
	c.Flags().BoolVarP(&r.compress, "compress", "z", false, "gzip-compress the output")
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
	var buf bytes.Buffer
	if err := interchange.Encode(&buf, book, r.compress); err != nil {
		return err
	}
	if err := atomic.WriteFile(args[0], &buf); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported book %s to %s\n", book.GUID, args[0])
	return nil
}
