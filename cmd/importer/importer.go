// Package importer implements the import command.
package importer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/biker2000on/gnucash-web-sub001/lib/audit"
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
		Use:   "import <file>",
		Short: "import a book",
		Long:  `Import a gnc-v2 document (plain or gzip-compressed) into the database. The import is atomic: a failing record rolls back the whole book.`,
		Args:  cobra.ExactArgs(1),
		RunE:  r.execute,
	}
	r.setupFlags(c)
	return c
}

type runner struct {
	config   string
	encoding string
}

func (r *runner) setupFlags(c *cobra.Command) {
	c.Flags().StringVarP(&r.config, "config", "c", "", "config file")
	c.Flags().StringVar(&r.encoding, "encoding", "", "force the input encoding (latin1, windows-1252)")
}

func (r *runner) execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := config.Load(r.config)
	if err != nil {
		return err
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	reader, err := decode(f, r.encoding)
	if err != nil {
		return err
	}
	reg := registry.New()
	book, err := interchange.Parse(reader, reg)
	if err != nil {
		return err
	}
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	bar := pb.StartNew(repo.EntityCount(book))
	err = repo.ImportBook(ctx, db, book, func() { bar.Increment() })
	bar.Finish()
	if err != nil {
		return err
	}
	sink(cfg).Record(audit.Entry{
		Action: "import",
		Book:   book.GUID,
		Detail: fmt.Sprintf("%s: %d entities", args[0], repo.EntityCount(book)),
	})
	yellow := color.New(color.FgYellow)
	for _, w := range multierr.Errors(book.Warnings) {
		yellow.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", w)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported book %s: %d commodities, %d accounts, %d transactions, %d prices, %d budgets\n",
		book.GUID, len(book.Commodities), len(book.Accounts), len(book.Transactions), len(book.Prices), len(book.Budgets))
	return nil
}

func decode(f io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(encoding) {
	case "":
		return f, nil
	case "latin1", "iso-8859-1":
		return transform.NewReader(f, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252":
		return transform.NewReader(f, charmap.Windows1252.NewDecoder()), nil
	}
	return nil, fmt.Errorf("unsupported encoding %q", encoding)
}

func sink(cfg config.Config) audit.Sink {
	if cfg.AuditLog == "" {
		return audit.Discard
	}
	f, err := os.OpenFile(cfg.AuditLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		// Auditing is best effort.
		return audit.Discard
	}
	return audit.NewLog(f)
}
