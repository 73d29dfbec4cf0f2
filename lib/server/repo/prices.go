package repo

import (
	"context"
	"fmt"

	"github.com/biker2000on/gnucash-web-sub001/lib/fraction"
	"github.com/biker2000on/gnucash-web-sub001/lib/model/price"
	"github.com/biker2000on/gnucash-web-sub001/lib/model/registry"
)

// CreatePrice persists a price quote.
func CreatePrice(ctx context.Context, db db, p *price.Price) error {
	_, err := db.ExecContext(ctx, `
	  INSERT INTO prices (guid, commodity_namespace, commodity_mnemonic, currency_namespace, currency_mnemonic, date, value_num, value_denom, source, price_type)
	  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.GUID, p.Commodity.Space, p.Commodity.ID, p.Currency.Space, p.Currency.ID,
		p.Date, p.Value.Num, p.Value.Denom, p.Source, p.Type)
	return err
}

// ListPrices fetches all prices, ordered by commodity and date.
func ListPrices(ctx context.Context, db db, reg *registry.Registry) ([]*price.Price, error) {
	rows, err := db.QueryContext(ctx, `
	  SELECT guid, commodity_namespace, commodity_mnemonic, currency_namespace, currency_mnemonic, date, value_num, value_denom, source, price_type
	  FROM prices
	  ORDER BY commodity_namespace, commodity_mnemonic, date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []*price.Price
	for rows.Next() {
		var (
			p               price.Price
			cSpace, cID     string
			curSpace, curID string
			num, denom      int64
		)
		if err := rows.Scan(&p.GUID, &cSpace, &cID, &curSpace, &curID, &p.Date, &num, &denom, &p.Source, &p.Type); err != nil {
			return nil, err
		}
		commodity, ok := reg.Commodities().Get(cSpace, cID)
		if !ok {
			return nil, fmt.Errorf("price %s references unknown commodity %s:%s", p.GUID, cSpace, cID)
		}
		currency, ok := reg.Commodities().Get(curSpace, curID)
		if !ok {
			return nil, fmt.Errorf("price %s references unknown currency %s:%s", p.GUID, curSpace, curID)
		}
		p.Commodity = commodity
		p.Currency = currency
		p.Value = fraction.Fraction{Num: num, Denom: denom}
		res = append(res, &p)
	}
	return res, rows.Err()
}
