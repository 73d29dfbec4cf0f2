package transaction

import (
	"fmt"
	"time"

	"github.com/biker2000on/gnucash-web-sub001/lib/common/compare"
	"github.com/biker2000on/gnucash-web-sub001/lib/fraction"
	"github.com/biker2000on/gnucash-web-sub001/lib/model/commodity"
)

// ReconcileState tracks statement matching for a split.
type ReconcileState string

const (
	NotReconciled ReconcileState = "n"
	Cleared       ReconcileState = "c"
	Reconciled    ReconcileState = "y"
)

// Valid reports whether s is one of the defined reconcile states.
func (s ReconcileState) Valid() bool {
	switch s {
	case NotReconciled, Cleared, Reconciled:
		return true
	}
	return false
}

// Split is one account-side leg of a transaction. Value is denominated
// in the transaction currency, Quantity in the account's commodity; the
// two differ only when those commodities differ.
type Split struct {
	GUID          string
	AccountGUID   string
	Value         fraction.Fraction
	Quantity      fraction.Fraction
	Memo          string
	Action        string
	Reconcile     ReconcileState
	ReconcileDate time.Time
	LotGUID       string
}

// Transaction is a double-entry transaction owning an ordered set of
// splits.
type Transaction struct {
	GUID        string
	Currency    *commodity.Commodity
	DatePosted  time.Time
	DateEntered time.Time
	Num         string
	Description string
	Splits      []*Split
}

func (t *Transaction) String() string {
	return fmt.Sprintf("%s %s", t.DatePosted.Format("2006-01-02"), t.Description)
}

// Balance returns the exact rational sum of the splits' values.
func (t *Transaction) Balance() fraction.Fraction {
	sum := fraction.Zero
	for _, s := range t.Splits {
		sum = sum.Add(s.Value)
	}
	return sum
}

func Compare(t1, t2 *Transaction) compare.Order {
	if o := compare.Time(t1.DatePosted, t2.DatePosted); o != compare.Equal {
		return o
	}
	if o := compare.Ordered(t1.Description, t2.Description); o != compare.Equal {
		return o
	}
	return compare.Ordered(t1.GUID, t2.GUID)
}
