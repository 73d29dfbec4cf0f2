package price

import (
	"time"

	"github.com/biker2000on/gnucash-web-sub001/lib/common/compare"
	"github.com/biker2000on/gnucash-web-sub001/lib/fraction"
	"github.com/biker2000on/gnucash-web-sub001/lib/model/commodity"
)

// Price is one observed exchange point: the value of one unit of
// Commodity, expressed in Currency.
type Price struct {
	GUID      string
	Commodity *commodity.Commodity
	Currency  *commodity.Commodity
	Date      time.Time
	Value     fraction.Fraction
	Source    string
	Type      string
}

// Compare orders prices by date, then commodity and currency.
func Compare(p1, p2 *Price) compare.Order {
	if o := compare.Time(p1.Date, p2.Date); o != compare.Equal {
		return o
	}
	if o := commodity.Compare(p1.Commodity, p2.Commodity); o != compare.Equal {
		return o
	}
	return commodity.Compare(p1.Currency, p2.Currency)
}
