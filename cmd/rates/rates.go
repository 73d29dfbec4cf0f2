// Package rates implements the rates command.
package rates

import (
	"bufio"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/biker2000on/gnucash-web-sub001/cmd/flags"
	"github.com/biker2000on/gnucash-web-sub001/lib/config"
	"github.com/biker2000on/gnucash-web-sub001/lib/model/commodity"
	"github.com/biker2000on/gnucash-web-sub001/lib/model/registry"
	"github.com/biker2000on/gnucash-web-sub001/lib/rates"
	"github.com/biker2000on/gnucash-web-sub001/lib/server/database"
	"github.com/biker2000on/gnucash-web-sub001/lib/server/repo"
	"github.com/biker2000on/gnucash-web-sub001/lib/table"
)

// CreateCmd creates the command.
func CreateCmd() *cobra.Command {
	var r runner
	c := &cobra.Command{
		Use:   "rates",
		Short: "show exchange rates",
		Long:  `Resolve the rate of every known currency into the base currency, deriving inverse and triangulated rates where no direct price exists.`,
		Args:  cobra.NoArgs,
		RunE:  r.execute,
	}
	r.setupFlags(c)
	return c
}

type runner struct {
	config string
	base   string
	date   flags.DateFlag
}

func (r *runner) setupFlags(c *cobra.Command) {
	c.Flags().StringVarP(&r.config, "config", "c", "", "config file")
	c.Flags().StringVarP(&r.base, "base", "b", "USD", "base currency")
	c.Flags().Var(&r.date, "date", "resolve rates as of this date")
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
	reg := registry.New()
	if _, err := repo.ListCommodities(ctx, db, reg); err != nil {
		return err
	}
	prices, err := repo.ListPrices(ctx, db, reg)
	if err != nil {
		return err
	}
	base, ok := reg.Commodities().Get(commodity.CurrencySpace, r.base)
	if !ok {
		return fmt.Errorf("unknown currency %q", r.base)
	}

	resolver := rates.NewResolver(prices, reg.Commodities()).WithHubs(cfg.Hubs)
	all := resolver.AllRates(base, r.date.ValueOr(time.Now()))
	currencies := make([]string, 0, len(all))
	for cur := range all {
		currencies = append(currencies, cur)
	}
	sort.Strings(currencies)

	tbl := table.New(1, 1, 1, 1)
	tbl.AddSeparatorRow()
	tbl.AddRow().
		AddText("Currency", table.Center).
		AddText(r.base, table.Center).
		AddText("Date", table.Center).
		AddText("Source", table.Center)
	tbl.AddSeparatorRow()
	for _, cur := range currencies {
		row := tbl.AddRow().AddText(cur, table.Left)
		if rate := all[cur]; rate != nil {
			row.AddNumber(rate.Rate).
				AddText(rate.Date.Format("2006-01-02"), table.Left).
				AddText(rate.Source, table.Left)
		} else {
			row.AddText("-", table.Right).AddText("-", table.Left).AddText("unavailable", table.Left)
		}
	}
	tbl.AddSeparatorRow()

	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()
	tbl.Render(out)
	return nil
}
