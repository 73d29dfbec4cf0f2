// Package balance implements the balance command.
package balance

import (
	"bufio"

	"github.com/spf13/cobra"

	"github.com/biker2000on/gnucash-web-sub001/cmd/flags"
	"github.com/biker2000on/gnucash-web-sub001/lib/balance"
	"github.com/biker2000on/gnucash-web-sub001/lib/bookcache"
	"github.com/biker2000on/gnucash-web-sub001/lib/common/set"
	"github.com/biker2000on/gnucash-web-sub001/lib/config"
	"github.com/biker2000on/gnucash-web-sub001/lib/model/registry"
	"github.com/biker2000on/gnucash-web-sub001/lib/server/database"
	"github.com/biker2000on/gnucash-web-sub001/lib/server/repo"
	"github.com/biker2000on/gnucash-web-sub001/lib/table"
)

// CreateCmd creates the command.
func CreateCmd() *cobra.Command {
	var r runner
	c := &cobra.Command{
		Use:   "balance",
		Short: "show the account balances",
		Long:  `Roll the account balances up along the account hierarchy and render them as a tree.`,
		Args:  cobra.NoArgs,
		RunE:  r.execute,
	}
	r.setupFlags(c)
	return c
}

type runner struct {
	config string
	root   flags.GUIDFlag
}

func (r *runner) setupFlags(c *cobra.Command) {
	c.Flags().StringVarP(&r.config, "config", "c", "", "config file")
	c.Flags().Var(&r.root, "root", "roll up below this account instead of the book root")
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
	_, bookRoot, err := repo.GetBook(ctx, db)
	if err != nil {
		return err
	}
	root := r.root.Value()
	if root == "" {
		root = bookRoot
	}

	reg := registry.New()
	if _, err := repo.ListCommodities(ctx, db, reg); err != nil {
		return err
	}
	accounts, err := repo.ListAccounts(ctx, db, reg)
	if err != nil {
		return err
	}
	own, err := repo.AccountBalances(ctx, db)
	if err != nil {
		return err
	}

	var scope repo.BookProvider = &repo.Scope{DB: db, RootGUID: root}
	cache := bookcache.New(bookcache.DefaultTTL)
	guids, err := cache.AccountGUIDs(root, func() ([]string, error) {
		return scope.AccountGUIDs(ctx)
	})
	if err != nil {
		return err
	}
	inScope := set.Of(guids...)

	var items []balance.AccountBalance
	for _, a := range accounts {
		if a.GUID == root || !inScope.Has(a.GUID) {
			continue
		}
		items = append(items, balance.AccountBalance{
			GUID:       a.GUID,
			Name:       a.Name,
			ParentGUID: a.ParentGUID,
			Own:        own[a.GUID].Decimal(),
		})
	}
	tree := balance.Build(items, root)

	tbl := table.New(1, 1)
	tbl.AddSeparatorRow()
	tbl.AddRow().AddText("Account", table.Center).AddText("Balance", table.Center)
	tbl.AddSeparatorRow()
	for _, item := range tree {
		addLines(tbl, item)
	}
	tbl.AddSeparatorRow()

	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()
	tbl.Render(out)
	return nil
}

func addLines(tbl *table.Table, item *balance.LineItem) {
	tbl.AddRow().AddIndented(item.Name, 2*item.Depth).AddNumber(item.Amount)
	for _, child := range item.Children {
		addLines(tbl, child)
	}
}
