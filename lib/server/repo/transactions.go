package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/biker2000on/gnucash-web-sub001/lib/fraction"
	"github.com/biker2000on/gnucash-web-sub001/lib/model/registry"
	"github.com/biker2000on/gnucash-web-sub001/lib/model/transaction"
)

// CreateTransaction persists a transaction together with its splits.
// Split accounts must already exist.
func CreateTransaction(ctx context.Context, db db, t *transaction.Transaction) error {
	_, err := db.ExecContext(ctx, `
	  INSERT INTO transactions (guid, currency_namespace, currency_mnemonic, date_posted, date_entered, num, description)
	  VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.GUID, t.Currency.Space, t.Currency.ID, t.DatePosted, t.DateEntered, t.Num, t.Description)
	if err != nil {
		return err
	}
	for _, s := range t.Splits {
		var reconcileDate sql.NullTime
		if !s.ReconcileDate.IsZero() {
			reconcileDate = sql.NullTime{Time: s.ReconcileDate, Valid: true}
		}
		_, err := db.ExecContext(ctx, `
		  INSERT INTO splits (guid, transaction_guid, account_guid, value_num, value_denom, quantity_num, quantity_denom, memo, action, reconcile_state, reconcile_date)
		  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.GUID, t.GUID, s.AccountGUID,
			s.Value.Num, s.Value.Denom, s.Quantity.Num, s.Quantity.Denom,
			s.Memo, s.Action, string(s.Reconcile), reconcileDate)
		if err != nil {
			return fmt.Errorf("transaction %s: %w", t.GUID, err)
		}
	}
	return nil
}

// ListTransactions fetches all transactions with their splits, ordered
// by posted date.
func ListTransactions(ctx context.Context, db db, reg *registry.Registry) ([]*transaction.Transaction, error) {
	splits, err := listSplits(ctx, db)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `
	  SELECT guid, currency_namespace, currency_mnemonic, date_posted, date_entered, num, description
	  FROM transactions
	  ORDER BY date_posted, description, guid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []*transaction.Transaction
	for rows.Next() {
		var (
			t               transaction.Transaction
			space, mnemonic string
		)
		if err := rows.Scan(&t.GUID, &space, &mnemonic, &t.DatePosted, &t.DateEntered, &t.Num, &t.Description); err != nil {
			return nil, err
		}
		c, ok := reg.Commodities().Get(space, mnemonic)
		if !ok {
			return nil, fmt.Errorf("transaction %s references unknown currency %s:%s", t.GUID, space, mnemonic)
		}
		t.Currency = c
		t.Splits = splits[t.GUID]
		res = append(res, &t)
	}
	return res, rows.Err()
}

func listSplits(ctx context.Context, db db) (map[string][]*transaction.Split, error) {
	rows, err := db.QueryContext(ctx, `
	  SELECT guid, transaction_guid, account_guid, value_num, value_denom, quantity_num, quantity_denom, memo, action, reconcile_state, reconcile_date
	  FROM splits
	  ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := make(map[string][]*transaction.Split)
	for rows.Next() {
		var (
			s               transaction.Split
			transactionGUID string
			state           string
			reconcileDate   sql.NullTime
			vn, vd, qn, qd  int64
		)
		if err := rows.Scan(&s.GUID, &transactionGUID, &s.AccountGUID, &vn, &vd, &qn, &qd, &s.Memo, &s.Action, &state, &reconcileDate); err != nil {
			return nil, err
		}
		s.Value = fraction.Fraction{Num: vn, Denom: vd}
		s.Quantity = fraction.Fraction{Num: qn, Denom: qd}
		s.Reconcile = transaction.ReconcileState(state)
		if reconcileDate.Valid {
			s.ReconcileDate = reconcileDate.Time
		}
		res[transactionGUID] = append(res[transactionGUID], &s)
	}
	return res, rows.Err()
}

// AccountBalances returns the exact sum of split values booked directly
// against each account. Accounts without splits are not listed.
func AccountBalances(ctx context.Context, db db) (map[string]fraction.Fraction, error) {
	rows, err := db.QueryContext(ctx, `SELECT account_guid, value_num, value_denom FROM splits`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := make(map[string]fraction.Fraction)
	for rows.Next() {
		var (
			guid       string
			num, denom int64
		)
		if err := rows.Scan(&guid, &num, &denom); err != nil {
			return nil, err
		}
		res[guid] = res[guid].Add(fraction.Fraction{Num: num, Denom: denom})
	}
	return res, rows.Err()
}
