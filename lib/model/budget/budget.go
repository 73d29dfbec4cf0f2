package budget

import (
	"github.com/biker2000on/gnucash-web-sub001/lib/common/dict"
	"github.com/biker2000on/gnucash-web-sub001/lib/fraction"
)

// Budget holds one amount per budgeted account and period. Amounts are
// sparse: periods without a budgeted amount are absent, not zero.
type Budget struct {
	GUID        string
	Name        string
	Description string
	NumPeriods  int
	Amounts     map[string]map[int]fraction.Fraction
}

func New(guid, name string, numPeriods int) *Budget {
	return &Budget{
		GUID:       guid,
		Name:       name,
		NumPeriods: numPeriods,
		Amounts:    make(map[string]map[int]fraction.Fraction),
	}
}

// Set records the budgeted amount for an account and period.
func (b *Budget) Set(accountGUID string, period int, amount fraction.Fraction) {
	periods := dict.GetDefault(b.Amounts, accountGUID, func() map[int]fraction.Fraction {
		return make(map[int]fraction.Fraction)
	})
	periods[period] = amount
}

// Get returns the budgeted amount for an account and period.
func (b *Budget) Get(accountGUID string, period int) (fraction.Fraction, bool) {
	periods, ok := b.Amounts[accountGUID]
	if !ok {
		return fraction.Zero, false
	}
	amount, ok := periods[period]
	return amount, ok
}
