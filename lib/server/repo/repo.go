// Package repo implements the SQL persistence functions for books. All
// functions accept a db interface, so they run equally inside and
// outside a transaction.
package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/biker2000on/gnucash-web-sub001/lib/interchange"
	"github.com/biker2000on/gnucash-web-sub001/lib/model/registry"
)

type db interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

type scan interface {
	Scan(dest ...interface{}) error
}

// BookProvider yields the account scope of the active book. It is
// consumed by callers which need the ordered set of accounts under the
// book root without depending on the SQL layer.
type BookProvider interface {
	AccountGUIDs(ctx context.Context) ([]string, error)
}

// Scope is the database-backed BookProvider for one book root.
type Scope struct {
	DB       *sql.DB
	RootGUID string
}

// AccountGUIDs returns the GUIDs of all accounts under the scope root,
// parents before children.
func (s *Scope) AccountGUIDs(ctx context.Context) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, `
	  WITH RECURSIVE tree (guid) AS (
	    SELECT guid FROM accounts WHERE guid = ?
	    UNION ALL
	    SELECT a.guid FROM accounts a JOIN tree ON a.parent_guid = tree.guid
	  )
	  SELECT guid FROM tree`, s.RootGUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []string
	for rows.Next() {
		var guid string
		if err := rows.Scan(&guid); err != nil {
			return nil, err
		}
		res = append(res, guid)
	}
	return res, rows.Err()
}

// SaveBook upserts the book row.
func SaveBook(ctx context.Context, db db, guid, rootGUID string) error {
	_, err := db.ExecContext(ctx, `
	  INSERT INTO books (guid, root_account_guid) VALUES (?, ?)
	  ON CONFLICT (guid) DO UPDATE SET root_account_guid = excluded.root_account_guid`,
		guid, rootGUID)
	return err
}

// GetBook returns the GUID and root account GUID of the stored book.
func GetBook(ctx context.Context, db db) (guid, rootGUID string, err error) {
	row := db.QueryRowContext(ctx, `SELECT guid, root_account_guid FROM books LIMIT 1`)
	if row.Err() != nil {
		return "", "", row.Err()
	}
	err = row.Scan(&guid, &rootGUID)
	return guid, rootGUID, err
}

// Progress is called after each persisted entity during an import. A
// nil Progress is valid and reports nothing.
type Progress func()

func (p Progress) tick() {
	if p != nil {
		p()
	}
}

// ImportBook persists a parsed book in a single transaction. Any
// failure rolls back every insert, so a book is either imported
// completely or not at all. Accounts are inserted in the book's order,
// which the codec guarantees to be parent before child; the parent
// foreign key enforces it.
func ImportBook(ctx context.Context, database *sql.DB, book *interchange.Book, progress Progress) error {
	txn, err := database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := importBook(ctx, txn, book, progress); err != nil {
		txn.Rollback()
		return fmt.Errorf("importing book %s: %w", book.GUID, err)
	}
	return txn.Commit()
}

func importBook(ctx context.Context, txn *sql.Tx, book *interchange.Book, progress Progress) error {
	if err := SaveBook(ctx, txn, book.GUID, book.RootGUID); err != nil {
		return err
	}
	for _, c := range book.Commodities {
		if err := CreateCommodity(ctx, txn, c); err != nil {
			return err
		}
		progress.tick()
	}
	for _, a := range book.Accounts {
		if err := CreateAccount(ctx, txn, a); err != nil {
			return err
		}
		progress.tick()
	}
	for _, t := range book.Transactions {
		if err := CreateTransaction(ctx, txn, t); err != nil {
			return err
		}
		progress.tick()
	}
	for _, p := range book.Prices {
		if err := CreatePrice(ctx, txn, p); err != nil {
			return err
		}
		progress.tick()
	}
	for _, b := range book.Budgets {
		if err := CreateBudget(ctx, txn, b); err != nil {
			return err
		}
		progress.tick()
	}
	return nil
}

// EntityCount returns the number of entities ImportBook will persist,
// for progress reporting.
func EntityCount(book *interchange.Book) int {
	return len(book.Commodities) + len(book.Accounts) + len(book.Transactions) + len(book.Prices) + len(book.Budgets)
}

// LoadBook reads the stored book back into a Book, populating the given
// registry along the way.
func LoadBook(ctx context.Context, db db, reg *registry.Registry) (*interchange.Book, error) {
	book := &interchange.Book{}
	var err error
	if book.GUID, book.RootGUID, err = GetBook(ctx, db); err != nil {
		return nil, err
	}
	if book.Commodities, err = ListCommodities(ctx, db, reg); err != nil {
		return nil, err
	}
	if book.Accounts, err = ListAccounts(ctx, db, reg); err != nil {
		return nil, err
	}
	if book.Transactions, err = ListTransactions(ctx, db, reg); err != nil {
		return nil, err
	}
	if book.Prices, err = ListPrices(ctx, db, reg); err != nil {
		return nil, err
	}
	if book.Budgets, err = ListBudgets(ctx, db); err != nil {
		return nil, err
	}
	return book, nil
}

// EarliestTransactionDate returns the posted date of the oldest
// transaction, or a zero time for an empty book.
func EarliestTransactionDate(ctx context.Context, db db) (time.Time, error) {
	var res time.Time
	row := db.QueryRowContext(ctx, `SELECT date_posted FROM transactions ORDER BY date_posted LIMIT 1`)
	if row.Err() != nil {
		return res, row.Err()
	}
	if err := row.Scan(&res); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, nil
		}
		return res, err
	}
	return res, nil
}
