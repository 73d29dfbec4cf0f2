package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/biker2000on/gnucash-web-sub001/lib/model/account"
	"github.com/biker2000on/gnucash-web-sub001/lib/model/registry"
)

// CreateAccount persists an account. The parent, if any, must already
// exist.
func CreateAccount(ctx context.Context, db db, a *account.Account) error {
	var (
		parent          sql.NullString
		space, mnemonic sql.NullString
	)
	if a.ParentGUID != "" {
		parent = sql.NullString{String: a.ParentGUID, Valid: true}
	}
	if a.Commodity != nil {
		space = sql.NullString{String: a.Commodity.Space, Valid: true}
		mnemonic = sql.NullString{String: a.Commodity.ID, Valid: true}
	}
	_, err := db.ExecContext(ctx, `
	  INSERT INTO accounts (guid, name, account_type, commodity_namespace, commodity_mnemonic, parent_guid, description, placeholder, hidden)
	  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.GUID, a.Name, a.Type.String(), space, mnemonic, parent, a.Description, a.Placeholder, a.Hidden)
	return err
}

// ListAccounts lists all accounts in insertion order, which is parent
// before child, registering each in the given registry.
func ListAccounts(ctx context.Context, db db, reg *registry.Registry) ([]*account.Account, error) {
	rows, err := db.QueryContext(ctx, `
	  SELECT guid, name, account_type, commodity_namespace, commodity_mnemonic, parent_guid, description, placeholder, hidden
	  FROM accounts
	  ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []*account.Account
	for rows.Next() {
		a, err := rowToAccount(rows, reg)
		if err != nil {
			return nil, err
		}
		if err := reg.Accounts().Add(a); err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

// CountSplits reports the number of splits booked against an account.
// DB satisfies account.SplitCounter for registry deletions.
type DB struct {
	*sql.DB
	Ctx context.Context
}

func (d DB) CountSplits(guid string) (int, error) {
	var n int
	row := d.QueryRowContext(d.Ctx, `SELECT COUNT(*) FROM splits WHERE account_guid = ?`, guid)
	if row.Err() != nil {
		return 0, row.Err()
	}
	return n, row.Scan(&n)
}

// DeleteAccount removes an account row. The foreign keys on splits and
// child accounts reject the deletion while references remain.
func DeleteAccount(ctx context.Context, db db, guid string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM accounts WHERE guid = ?`, guid)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != 1 {
		return fmt.Errorf("unknown account %s", guid)
	}
	return nil
}

func rowToAccount(row scan, reg *registry.Registry) (*account.Account, error) {
	var (
		a               account.Account
		typ             string
		space, mnemonic sql.NullString
		parent          sql.NullString
	)
	if err := row.Scan(&a.GUID, &a.Name, &typ, &space, &mnemonic, &parent, &a.Description, &a.Placeholder, &a.Hidden); err != nil {
		return nil, err
	}
	t, err := account.ParseType(typ)
	if err != nil {
		return nil, err
	}
	a.Type = t
	if space.Valid && mnemonic.Valid {
		c, ok := reg.Commodities().Get(space.String, mnemonic.String)
		if !ok {
			return nil, fmt.Errorf("account %s references unknown commodity %s:%s", a.GUID, space.String, mnemonic.String)
		}
		a.Commodity = c
	}
	a.ParentGUID = parent.String
	return &a, nil
}
