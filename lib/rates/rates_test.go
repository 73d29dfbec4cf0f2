package rates

import (
	"testing"
	"time"

	"github.com/biker2000on/gnucash-web-sub001/lib/fraction"
	"github.com/biker2000on/gnucash-web-sub001/lib/model/commodity"
	"github.com/biker2000on/gnucash-web-sub001/lib/model/price"
	"github.com/shopspring/decimal"
)

func day(d int) time.Time {
	return time.Date(2023, time.June, d, 0, 0, 0, 0, time.UTC)
}

func setup(t *testing.T, mnemonics ...string) (*commodity.Registry, map[string]*commodity.Commodity) {
	t.Helper()
	reg := commodity.NewRegistry()
	res := make(map[string]*commodity.Commodity)
	for _, m := range mnemonics {
		c, err := reg.Create(commodity.CurrencySpace, m)
		if err != nil {
			t.Fatalf("Create(%s) returned unexpected error: %v", m, err)
		}
		res[m] = c
	}
	return reg, res
}

func TestFindRateSameCurrency(t *testing.T) {
	reg, cs := setup(t, "USD", "EUR", "CHF")
	r := NewResolver(nil, reg)
	for _, c := range cs {
		rate, ok := r.FindRate(c, c, day(15))
		if !ok {
			t.Fatalf("FindRate(%s, %s) not found", c, c)
		}
		if !rate.Rate.Equal(decimal.NewFromInt(1)) || rate.Source != SourceSame {
			t.Errorf("FindRate(%s, %s) = %+v, want rate 1 source same-currency", c, c, rate)
		}
	}
}

func TestFindRateDirect(t *testing.T) {
	reg, cs := setup(t, "USD", "EUR")
	prices := []*price.Price{
		{Commodity: cs["EUR"], Currency: cs["USD"], Date: day(1), Value: fraction.New(105, 100), Source: "user:price"},
		{Commodity: cs["EUR"], Currency: cs["USD"], Date: day(10), Value: fraction.New(110, 100), Source: "user:price"},
		{Commodity: cs["EUR"], Currency: cs["USD"], Date: day(20), Value: fraction.New(120, 100), Source: "user:price"},
	}
	r := NewResolver(prices, reg)

	rate, ok := r.FindRate(cs["EUR"], cs["USD"], day(15))
	if !ok {
		t.Fatal("FindRate(EUR, USD) not found")
	}
	if !rate.Rate.Equal(decimal.RequireFromString("1.1")) {
		t.Errorf("rate = %s, want 1.1 (most recent at or before the date)", rate.Rate)
	}
	if rate.Source != SourceDirect || !rate.Date.Equal(day(10)) {
		t.Errorf("rate = %+v, want direct of day 10", rate)
	}
}

func TestFindRateInverse(t *testing.T) {
	reg, cs := setup(t, "A", "B")
	prices := []*price.Price{
		{Commodity: cs["B"], Currency: cs["A"], Date: day(5), Value: fraction.New(4, 1), Source: "user:price"},
	}
	r := NewResolver(prices, reg)

	rate, ok := r.FindRate(cs["A"], cs["B"], day(15))
	if !ok {
		t.Fatal("FindRate(A, B) not found")
	}
	if !rate.Rate.Equal(decimal.RequireFromString("0.25")) {
		t.Errorf("rate = %s, want 0.25", rate.Rate)
	}
	if rate.Source != "inverse:user:price" {
		t.Errorf("source = %q, want inverse:user:price", rate.Source)
	}
}

func TestFindRateInverseOfZero(t *testing.T) {
	reg, cs := setup(t, "A", "B")
	prices := []*price.Price{
		{Commodity: cs["B"], Currency: cs["A"], Date: day(5), Value: fraction.New(0, 1), Source: "user:price"},
	}
	r := NewResolver(prices, reg)

	rate, ok := r.FindRate(cs["A"], cs["B"], day(15))
	if !ok {
		t.Fatal("FindRate(A, B) not found")
	}
	if !rate.Rate.IsZero() {
		t.Errorf("rate = %s, want 0", rate.Rate)
	}
}

func TestFindRateTriangulated(t *testing.T) {
	reg, cs := setup(t, "A", "B", "USD")
	prices := []*price.Price{
		{Commodity: cs["A"], Currency: cs["USD"], Date: day(3), Value: fraction.New(2, 1), Source: "user:price"},
		{Commodity: cs["USD"], Currency: cs["B"], Date: day(7), Value: fraction.New(3, 1), Source: "user:price"},
	}
	r := NewResolver(prices, reg)

	rate, ok := r.FindRate(cs["A"], cs["B"], day(15))
	if !ok {
		t.Fatal("FindRate(A, B) not found")
	}
	if !rate.Rate.Equal(decimal.NewFromInt(6)) {
		t.Errorf("rate = %s, want 6", rate.Rate)
	}
	if rate.Source != "triangulated:USD" || !rate.IsTriangulated() {
		t.Errorf("source = %q, want triangulated:USD", rate.Source)
	}
	if !rate.Date.Equal(day(3)) {
		t.Errorf("date = %s, want the earlier leg date (day 3)", rate.Date)
	}
}

func TestFindRateTriangulatedFallsBackToEUR(t *testing.T) {
	reg, cs := setup(t, "A", "B", "USD", "EUR")
	prices := []*price.Price{
		{Commodity: cs["A"], Currency: cs["EUR"], Date: day(3), Value: fraction.New(2, 1), Source: "user:price"},
		{Commodity: cs["EUR"], Currency: cs["B"], Date: day(7), Value: fraction.New(5, 1), Source: "user:price"},
	}
	r := NewResolver(prices, reg)

	rate, ok := r.FindRate(cs["A"], cs["B"], day(15))
	if !ok {
		t.Fatal("FindRate(A, B) not found")
	}
	if rate.Source != "triangulated:EUR" {
		t.Errorf("source = %q, want triangulated:EUR", rate.Source)
	}
	if !rate.Rate.Equal(decimal.NewFromInt(10)) {
		t.Errorf("rate = %s, want 10", rate.Rate)
	}
}

func TestFindRateNoTriangulatedLegs(t *testing.T) {
	// A resolves to USD only through EUR, so the A->USD leg would
	// itself be triangulated. The one-hop rule must reject it.
	reg, cs := setup(t, "A", "B", "USD", "EUR")
	prices := []*price.Price{
		{Commodity: cs["A"], Currency: cs["EUR"], Date: day(3), Value: fraction.New(2, 1), Source: "user:price"},
		{Commodity: cs["EUR"], Currency: cs["USD"], Date: day(4), Value: fraction.New(11, 10), Source: "user:price"},
		{Commodity: cs["USD"], Currency: cs["B"], Date: day(7), Value: fraction.New(3, 1), Source: "user:price"},
	}
	r := NewResolver(prices, reg)

	rate, ok := r.FindRate(cs["A"], cs["B"], day(15))
	if ok && rate.Source == "triangulated:USD" {
		t.Errorf("FindRate(A, B) accepted a triangulated leg: %+v", rate)
	}
}

func TestFindRateNotFound(t *testing.T) {
	reg, cs := setup(t, "A", "B")
	r := NewResolver(nil, reg)
	if _, ok := r.FindRate(cs["A"], cs["B"], day(15)); ok {
		t.Error("FindRate(A, B) found a rate with no prices")
	}
}

func TestConvert(t *testing.T) {
	reg, cs := setup(t, "EUR", "USD")
	prices := []*price.Price{
		{Commodity: cs["EUR"], Currency: cs["USD"], Date: day(1), Value: fraction.New(2, 1), Source: "user:price"},
	}
	r := NewResolver(prices, reg)

	got, ok := r.Convert(decimal.NewFromInt(50), cs["EUR"], cs["USD"], day(15))
	if !ok || !got.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Convert(50, EUR, USD) = %s, %t, want 100, true", got, ok)
	}
	same, ok := r.Convert(decimal.NewFromInt(50), cs["EUR"], cs["EUR"], day(15))
	if !ok || !same.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Convert(50, EUR, EUR) = %s, %t, want 50, true", same, ok)
	}
}

func TestAllRates(t *testing.T) {
	reg, cs := setup(t, "CHF", "EUR", "USD")
	prices := []*price.Price{
		{Commodity: cs["EUR"], Currency: cs["USD"], Date: day(1), Value: fraction.New(11, 10), Source: "user:price"},
	}
	r := NewResolver(prices, reg)

	got := r.AllRates(cs["USD"], day(15))
	if len(got) != 3 {
		t.Fatalf("AllRates() returned %d entries, want 3", len(got))
	}
	if got["CHF"] != nil {
		t.Errorf("AllRates()[CHF] = %+v, want nil (gap)", got["CHF"])
	}
	if got["EUR"] == nil || !got["EUR"].Rate.Equal(decimal.RequireFromString("1.1")) {
		t.Errorf("AllRates()[EUR] = %+v, want rate 1.1", got["EUR"])
	}
	if got["USD"] == nil || got["USD"].Source != SourceSame {
		t.Errorf("AllRates()[USD] = %+v, want same-currency", got["USD"])
	}
}
