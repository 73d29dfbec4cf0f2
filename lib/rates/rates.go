// Package rates resolves exchange rates between commodities from the
// recorded price points, deriving inverse and triangulated rates where
// no direct observation exists.
package rates

import (
	"strings"
	"time"

	"github.com/biker2000on/gnucash-web-sub001/lib/model/commodity"
	"github.com/biker2000on/gnucash-web-sub001/lib/model/price"
	"github.com/shopspring/decimal"
)

// Sources of a resolved rate.
const (
	SourceSame   = "same-currency"
	SourceDirect = "direct"
)

var one = decimal.NewFromInt(1)

// DefaultHubs are the currencies used for triangulation, in order.
var DefaultHubs = []string{"USD", "EUR"}

// Rate is a resolved exchange rate: one unit of the source commodity is
// worth Rate units of the target.
type Rate struct {
	Rate   decimal.Decimal
	Date   time.Time
	Source string
}

// Resolver derives rates from a set of price points. It only reads
// prices, never mutates them.
type Resolver struct {
	prices   []*price.Price
	registry *commodity.Registry
	hubs     []string
}

func NewResolver(prices []*price.Price, reg *commodity.Registry) *Resolver {
	return &Resolver{prices: prices, registry: reg, hubs: DefaultHubs}
}

// WithHubs overrides the triangulation hub currencies, in order of
// preference.
func (r *Resolver) WithHubs(hubs []string) *Resolver {
	r.hubs = hubs
	return r
}

// FindRate resolves the rate from one commodity into another as of the
// given date. Resolution tries, in order: identity, the most recent
// direct price, the most recent inverse price, and triangulation
// through each hub currency. A missing rate is a normal result, not an
// error.
func (r *Resolver) FindRate(from, to *commodity.Commodity, asOf time.Time) (Rate, bool) {
	return r.findRate(from, to, asOf, true)
}

func (r *Resolver) findRate(from, to *commodity.Commodity, asOf time.Time, triangulate bool) (Rate, bool) {
	if same(from, to) {
		return Rate{Rate: one, Date: asOf, Source: SourceSame}, true
	}
	if p := r.latest(from, to, asOf); p != nil {
		return Rate{Rate: p.Value.Decimal(), Date: p.Date, Source: SourceDirect}, true
	}
	if p := r.latest(to, from, asOf); p != nil {
		rate := p.Value.Decimal()
		// A zero rate inverts to zero rather than dividing.
		if !rate.IsZero() {
			rate = one.Div(rate).Truncate(8)
		}
		return Rate{Rate: rate, Date: p.Date, Source: "inverse:" + p.Source}, true
	}
	if !triangulate {
		return Rate{}, false
	}
	// Triangulation accepts only direct or inverse legs. Allowing
	// triangulated legs would chase unbounded chains.
	for _, hub := range r.hubs {
		hubCommodity, ok := r.registry.Get(commodity.CurrencySpace, hub)
		if !ok || same(hubCommodity, from) || same(hubCommodity, to) {
			continue
		}
		leg1, ok := r.findRate(from, hubCommodity, asOf, false)
		if !ok {
			continue
		}
		leg2, ok := r.findRate(hubCommodity, to, asOf, false)
		if !ok {
			continue
		}
		date := leg1.Date
		if leg2.Date.Before(date) {
			date = leg2.Date
		}
		return Rate{
			Rate:   leg1.Rate.Mul(leg2.Rate),
			Date:   date,
			Source: "triangulated:" + hub,
		}, true
	}
	return Rate{}, false
}

// Convert values an amount of one commodity in another as of the given
// date.
func (r *Resolver) Convert(amount decimal.Decimal, from, to *commodity.Commodity, asOf time.Time) (decimal.Decimal, bool) {
	if same(from, to) {
		return amount, true
	}
	rate, ok := r.FindRate(from, to, asOf)
	if !ok {
		return decimal.Zero, false
	}
	return amount.Mul(rate.Rate), true
}

// AllRates resolves the rate of every known currency in the base
// currency. Unresolvable currencies map to nil, reporting the gap.
func (r *Resolver) AllRates(base *commodity.Commodity, asOf time.Time) map[string]*Rate {
	res := make(map[string]*Rate)
	for _, cur := range r.registry.Currencies() {
		if rate, ok := r.FindRate(cur, base, asOf); ok {
			rate := rate
			res[cur.ID] = &rate
		} else {
			res[cur.ID] = nil
		}
	}
	return res
}

// IsTriangulated reports whether a rate was derived through a hub.
func (rt Rate) IsTriangulated() bool {
	return strings.HasPrefix(rt.Source, "triangulated:")
}

// latest returns the most recent price of commodity c in currency cur
// dated at or before asOf.
func (r *Resolver) latest(c, cur *commodity.Commodity, asOf time.Time) *price.Price {
	var res *price.Price
	for _, p := range r.prices {
		if !same(p.Commodity, c) || !same(p.Currency, cur) {
			continue
		}
		if p.Date.After(asOf) {
			continue
		}
		if res == nil || p.Date.After(res.Date) {
			res = p
		}
	}
	return res
}

func same(c1, c2 *commodity.Commodity) bool {
	if c1 == c2 {
		return true
	}
	if c1 == nil || c2 == nil {
		return false
	}
	return c1.Space == c2.Space && c1.ID == c2.ID
}
