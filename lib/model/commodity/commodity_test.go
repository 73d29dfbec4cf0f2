package commodity

import (
	"testing"
)

func TestCreateDefaults(t *testing.T) {
	reg := NewRegistry()

	c, err := reg.Create(CurrencySpace, "CHF")

	if err != nil {
		t.Fatalf("Create() returned unexpected error: %v", err)
	}
	if c.Fraction != 100 {
		t.Errorf("Create() set fraction %d, want default 100", c.Fraction)
	}
	again, err := reg.Create(CurrencySpace, "CHF")
	if err != nil {
		t.Fatalf("Create() returned unexpected error: %v", err)
	}
	if again != c {
		t.Error("Create() of a known commodity returned a new instance")
	}
}

func TestCreateRejectsInvalidMnemonic(t *testing.T) {
	reg := NewRegistry()

	if _, err := reg.Create(CurrencySpace, ""); err == nil {
		t.Error("Create() with an empty mnemonic returned no error, expected one")
	}
	if _, err := reg.Create("", "CHF"); err == nil {
		t.Error("Create() with an empty namespace returned no error, expected one")
	}
}

func TestInsertRequiresPositiveFraction(t *testing.T) {
	reg := NewRegistry()

	err := reg.Insert(&Commodity{Space: CurrencySpace, ID: "JPY", Fraction: 0})

	if err == nil {
		t.Error("Insert() with fraction 0 returned no error, expected one")
	}
}

func TestCurrencies(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Insert(&Commodity{Space: CurrencySpace, ID: "USD", Fraction: 100}); err != nil {
		t.Fatal(err)
	}
	if err := reg.Insert(&Commodity{Space: "NASDAQ", ID: "AAPL", Fraction: 1}); err != nil {
		t.Fatal(err)
	}

	currencies := reg.Currencies()

	if len(currencies) != 1 {
		t.Fatalf("Currencies() returned %d commodities, want 1", len(currencies))
	}
	if currencies[0].ID != "USD" {
		t.Errorf("Currencies() = %s, want USD", currencies[0].ID)
	}
	if currencies[0].IsCurrency() != true {
		t.Error("IsCurrency() = false for a CURRENCY commodity")
	}
}
