package repo

import (
	"context"

	"github.com/biker2000on/gnucash-web-sub001/lib/common/compare"
	"github.com/biker2000on/gnucash-web-sub001/lib/common/dict"
	"github.com/biker2000on/gnucash-web-sub001/lib/fraction"
	"github.com/biker2000on/gnucash-web-sub001/lib/model/budget"
)

// CreateBudget persists a budget together with its per-account period
// amounts.
func CreateBudget(ctx context.Context, db db, b *budget.Budget) error {
	_, err := db.ExecContext(ctx, `
	  INSERT INTO budgets (guid, name, description, num_periods)
	  VALUES (?, ?, ?, ?)`,
		b.GUID, b.Name, b.Description, b.NumPeriods)
	if err != nil {
		return err
	}
	for _, accountGUID := range dict.SortedKeys(b.Amounts, compare.Ordered[string]) {
		periods := b.Amounts[accountGUID]
		for _, period := range dict.SortedKeys(periods, compare.Ordered[int]) {
			amount := periods[period]
			_, err := db.ExecContext(ctx, `
			  INSERT INTO budget_amounts (budget_guid, account_guid, period, amount_num, amount_denom)
			  VALUES (?, ?, ?, ?, ?)`,
				b.GUID, accountGUID, period, amount.Num, amount.Denom)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// ListBudgets fetches all budgets with their amounts, ordered by name.
func ListBudgets(ctx context.Context, db db) ([]*budget.Budget, error) {
	rows, err := db.QueryContext(ctx, `SELECT guid, name, description, num_periods FROM budgets ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []*budget.Budget
	index := make(map[string]*budget.Budget)
	for rows.Next() {
		var b budget.Budget
		if err := rows.Scan(&b.GUID, &b.Name, &b.Description, &b.NumPeriods); err != nil {
			return nil, err
		}
		b.Amounts = make(map[string]map[int]fraction.Fraction)
		index[b.GUID] = &b
		res = append(res, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	amounts, err := db.QueryContext(ctx, `SELECT budget_guid, account_guid, period, amount_num, amount_denom FROM budget_amounts`)
	if err != nil {
		return nil, err
	}
	defer amounts.Close()
	for amounts.Next() {
		var (
			budgetGUID, accountGUID string
			period                  int
			num, denom              int64
		)
		if err := amounts.Scan(&budgetGUID, &accountGUID, &period, &num, &denom); err != nil {
			return nil, err
		}
		if b, ok := index[budgetGUID]; ok {
			b.Set(accountGUID, period, fraction.Fraction{Num: num, Denom: denom})
		}
	}
	return res, amounts.Err()
}
