package repo

import (
	"context"

	"github.com/biker2000on/gnucash-web-sub001/lib/model/commodity"
	"github.com/biker2000on/gnucash-web-sub001/lib/model/registry"
)

// CreateCommodity persists a commodity. Re-importing a known commodity
// updates its descriptive fields.
func CreateCommodity(ctx context.Context, db db, c *commodity.Commodity) error {
	_, err := db.ExecContext(ctx, `
	  INSERT INTO commodities (namespace, mnemonic, fullname, xcode, fraction)
	  VALUES (?, ?, ?, ?, ?)
	  ON CONFLICT (namespace, mnemonic) DO UPDATE
	  SET fullname = excluded.fullname, xcode = excluded.xcode, fraction = excluded.fraction`,
		c.Space, c.ID, c.Name, c.XCode, c.Fraction)
	return err
}

// ListCommodities lists all commodities, sorted by namespace and
// mnemonic, registering each in the given registry.
func ListCommodities(ctx context.Context, db db, reg *registry.Registry) ([]*commodity.Commodity, error) {
	rows, err := db.QueryContext(ctx, `
	  SELECT namespace, mnemonic, fullname, xcode, fraction
	  FROM commodities
	  ORDER BY namespace, mnemonic`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []*commodity.Commodity
	for rows.Next() {
		var c commodity.Commodity
		if err := rows.Scan(&c.Space, &c.ID, &c.Name, &c.XCode, &c.Fraction); err != nil {
			return nil, err
		}
		if err := reg.Commodities().Insert(&c); err != nil {
			return nil, err
		}
		res = append(res, &c)
	}
	return res, rows.Err()
}
