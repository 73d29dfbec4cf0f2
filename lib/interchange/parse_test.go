package interchange

import (
	"strings"
	"testing"
	"time"

	"github.com/biker2000on/gnucash-web-sub001/lib/fraction"
	"github.com/biker2000on/gnucash-web-sub001/lib/model/account"
	"github.com/biker2000on/gnucash-web-sub001/lib/model/registry"
)

const sampleDoc = `<?xml version="1.0" encoding="utf-8" ?>
<gnc-v2
     xmlns:gnc="http://www.gnucash.org/XML/gnc"
     xmlns:act="http://www.gnucash.org/XML/act"
     xmlns:book="http://www.gnucash.org/XML/book"
     xmlns:cd="http://www.gnucash.org/XML/cd"
     xmlns:cmdty="http://www.gnucash.org/XML/cmdty"
     xmlns:price="http://www.gnucash.org/XML/price"
     xmlns:slot="http://www.gnucash.org/XML/slot"
     xmlns:split="http://www.gnucash.org/XML/split"
     xmlns:trn="http://www.gnucash.org/XML/trn"
     xmlns:ts="http://www.gnucash.org/XML/ts"
     xmlns:bgt="http://www.gnucash.org/XML/bgt">
<gnc:count-data cd:type="book">1</gnc:count-data>
<gnc:book version="2.0.0">
<book:id type="guid">b0000000000000000000000000000001</book:id>
<gnc:count-data cd:type="commodity">1</gnc:count-data>
<gnc:count-data cd:type="account">4</gnc:count-data>
<gnc:count-data cd:type="transaction">1</gnc:count-data>
<gnc:commodity version="2.0.0">
  <cmdty:space>CURRENCY</cmdty:space>
  <cmdty:id>USD</cmdty:id>
  <cmdty:fraction>100</cmdty:fraction>
</gnc:commodity>
<gnc:pricedb version="1">
  <price>
    <price:id type="guid">p0000000000000000000000000000001</price:id>
    <price:commodity>
      <cmdty:space>CURRENCY</cmdty:space>
      <cmdty:id>EUR</cmdty:id>
    </price:commodity>
    <price:currency>
      <cmdty:space>CURRENCY</cmdty:space>
      <cmdty:id>USD</cmdty:id>
    </price:currency>
    <price:time>
      <ts:date>2023-06-01 00:00:00 +0000</ts:date>
    </price:time>
    <price:source>user:price</price:source>
    <price:value>110/100</price:value>
  </price>
</gnc:pricedb>
<gnc:account version="2.0.0">
  <act:name>Checking</act:name>
  <act:id type="guid">a0000000000000000000000000000003</act:id>
  <act:type>BANK</act:type>
  <act:commodity>
    <cmdty:space>CURRENCY</cmdty:space>
    <cmdty:id>USD</cmdty:id>
  </act:commodity>
  <act:parent type="guid">a0000000000000000000000000000002</act:parent>
</gnc:account>
<gnc:account version="2.0.0">
  <act:name>Root Account</act:name>
  <act:id type="guid">a0000000000000000000000000000001</act:id>
  <act:type>ROOT</act:type>
</gnc:account>
<gnc:account version="2.0.0">
  <act:name>Assets</act:name>
  <act:id type="guid">a0000000000000000000000000000002</act:id>
  <act:type>ASSET</act:type>
  <act:commodity>
    <cmdty:space>CURRENCY</cmdty:space>
    <cmdty:id>USD</cmdty:id>
  </act:commodity>
  <act:parent type="guid">a0000000000000000000000000000001</act:parent>
</gnc:account>
<gnc:account version="2.0.0">
  <act:name>Opening Balances</act:name>
  <act:id type="guid">a0000000000000000000000000000004</act:id>
  <act:type>EQUITY</act:type>
  <act:commodity>
    <cmdty:space>CURRENCY</cmdty:space>
    <cmdty:id>USD</cmdty:id>
  </act:commodity>
  <act:parent type="guid">a0000000000000000000000000000001</act:parent>
</gnc:account>
<gnc:transaction version="2.0.0">
  <trn:id type="guid">t0000000000000000000000000000001</trn:id>
  <trn:currency>
    <cmdty:space>CURRENCY</cmdty:space>
    <cmdty:id>USD</cmdty:id>
  </trn:currency>
  <trn:date-posted>
    <ts:date>2023-06-15 00:00:00 +0000</ts:date>
  </trn:date-posted>
  <trn:date-entered>
    <ts:date>2023-06-15 08:30:00 +0000</ts:date>
  </trn:date-entered>
  <trn:description>Opening balance</trn:description>
  <trn:splits>
    <trn:split>
      <split:id type="guid">s0000000000000000000000000000001</split:id>
      <split:reconciled-state>n</split:reconciled-state>
      <split:value>50000/100</split:value>
      <split:quantity>50000/100</split:quantity>
      <split:account type="guid">a0000000000000000000000000000003</split:account>
    </trn:split>
    <trn:split>
      <split:id type="guid">s0000000000000000000000000000002</split:id>
      <split:reconciled-state>n</split:reconciled-state>
      <split:value>-50000/100</split:value>
      <split:quantity>-50000/100</split:quantity>
      <split:account type="guid">a0000000000000000000000000000004</split:account>
    </trn:split>
  </trn:splits>
</gnc:transaction>
<gnc:budget version="2.0.0">
  <bgt:id type="guid">g0000000000000000000000000000001</bgt:id>
  <bgt:name>Household</bgt:name>
  <bgt:num-periods>12</bgt:num-periods>
  <bgt:slots>
    <slot>
      <slot:key>a0000000000000000000000000000003</slot:key>
      <slot:value type="frame">
        <slot>
          <slot:key>0</slot:key>
          <slot:value type="numeric">120000/100</slot:value>
        </slot>
        <slot>
          <slot:key>3</slot:key>
          <slot:value type="numeric">90000/100</slot:value>
        </slot>
      </slot:value>
    </slot>
  </bgt:slots>
</gnc:budget>
</gnc:book>
</gnc-v2>
`

func TestParse(t *testing.T) {
	reg := registry.New()
	book, err := Parse(strings.NewReader(sampleDoc), reg)
	if err != nil {
		t.Fatalf("Parse() returned unexpected error: %v", err)
	}

	if book.GUID != "b0000000000000000000000000000001" {
		t.Errorf("book GUID = %s, want preserved", book.GUID)
	}
	if book.RootGUID != "a0000000000000000000000000000001" {
		t.Errorf("root GUID = %s, want the document root's", book.RootGUID)
	}
	// EUR is created on the fly by the price reference.
	if _, ok := reg.Commodities().Get("CURRENCY", "EUR"); !ok {
		t.Error("EUR was not created from the price reference")
	}
	if len(book.Accounts) != 4 {
		t.Fatalf("parsed %d accounts, want 4", len(book.Accounts))
	}

	// Accounts are in parent-before-child order although the document
	// lists Checking before its parent.
	pos := make(map[string]int)
	for i, a := range book.Accounts {
		pos[a.GUID] = i
	}
	if pos["a0000000000000000000000000000002"] > pos["a0000000000000000000000000000003"] {
		t.Error("parent Assets was not ordered before child Checking")
	}
	if pos["a0000000000000000000000000000001"] != 0 {
		t.Error("root account is not first")
	}

	checking, ok := reg.Accounts().Get("a0000000000000000000000000000003")
	if !ok {
		t.Fatal("Checking not in registry")
	}
	if checking.Type != account.BANK || checking.ParentGUID != "a0000000000000000000000000000002" {
		t.Errorf("Checking = %+v, want BANK under Assets", checking)
	}

	if len(book.Transactions) != 1 {
		t.Fatalf("parsed %d transactions, want 1", len(book.Transactions))
	}
	tx := book.Transactions[0]
	if tx.GUID != "t0000000000000000000000000000001" {
		t.Errorf("transaction GUID = %s, want preserved", tx.GUID)
	}
	wantPosted := time.Date(2023, time.June, 15, 0, 0, 0, 0, time.UTC)
	if !tx.DatePosted.Equal(wantPosted) {
		t.Errorf("date posted = %s, want %s", tx.DatePosted, wantPosted)
	}
	if len(tx.Splits) != 2 {
		t.Fatalf("parsed %d splits, want 2", len(tx.Splits))
	}
	if got, want := tx.Splits[0].Value, fraction.New(50000, 100); got != want {
		t.Errorf("split value = %v, want %v", got, want)
	}
	if !tx.Balance().IsZero() {
		t.Errorf("transaction balance = %v, want zero", tx.Balance())
	}

	if len(book.Prices) != 1 || book.Prices[0].Value != fraction.New(110, 100) {
		t.Errorf("prices = %+v, want one EUR price of 110/100", book.Prices)
	}

	if len(book.Budgets) != 1 {
		t.Fatalf("parsed %d budgets, want 1", len(book.Budgets))
	}
	b := book.Budgets[0]
	if b.NumPeriods != 12 {
		t.Errorf("budget periods = %d, want 12", b.NumPeriods)
	}
	if got, ok := b.Get("a0000000000000000000000000000003", 0); !ok || got != fraction.New(120000, 100) {
		t.Errorf("budget amount period 0 = %v, %t, want 120000/100", got, ok)
	}
	if _, ok := b.Get("a0000000000000000000000000000003", 1); ok {
		t.Error("budget period 1 should be absent, not zero")
	}
}

func TestParseRemapsRootOntoExistingBook(t *testing.T) {
	reg := registry.New()
	usd, err := reg.Commodities().Create("CURRENCY", "USD")
	if err != nil {
		t.Fatal(err)
	}
	existingRoot := &account.Account{
		GUID:      "e0000000000000000000000000000001",
		Name:      "Existing Root",
		Type:      account.ROOT,
		Commodity: usd,
	}
	if err := reg.Accounts().Add(existingRoot); err != nil {
		t.Fatal(err)
	}

	book, err := Parse(strings.NewReader(sampleDoc), reg)
	if err != nil {
		t.Fatalf("Parse() returned unexpected error: %v", err)
	}
	if book.RootGUID != existingRoot.GUID {
		t.Errorf("root GUID = %s, want remapped onto %s", book.RootGUID, existingRoot.GUID)
	}
	assets, ok := reg.Accounts().Get("a0000000000000000000000000000002")
	if !ok {
		t.Fatal("Assets not in registry")
	}
	if assets.ParentGUID != existingRoot.GUID {
		t.Errorf("Assets parent = %s, want redirected to the existing root", assets.ParentGUID)
	}
}

func TestParseSynthesizesUSD(t *testing.T) {
	doc := `<?xml version="1.0" encoding="utf-8" ?>
<gnc-v2>
<gnc:book version="2.0.0">
<gnc:account version="2.0.0">
  <act:name>Root</act:name>
  <act:id type="guid">a0000000000000000000000000000001</act:id>
  <act:type>ROOT</act:type>
</gnc:account>
</gnc:book>
</gnc-v2>
`
	reg := registry.New()
	book, err := Parse(strings.NewReader(doc), reg)
	if err != nil {
		t.Fatalf("Parse() returned unexpected error: %v", err)
	}
	usd, ok := reg.Commodities().Get("CURRENCY", "USD")
	if !ok {
		t.Fatal("USD was not synthesized")
	}
	if len(book.Commodities) != 1 || book.Commodities[0] != usd {
		t.Errorf("commodities = %+v, want the synthesized USD", book.Commodities)
	}
	if book.Warnings == nil {
		t.Error("synthesizing USD must be recorded as a warning")
	}
}

func TestParseDiscardsBadRecords(t *testing.T) {
	doc := strings.Replace(sampleDoc,
		"<ts:date>2023-06-01 00:00:00 +0000</ts:date>",
		"<ts:date>not a date</ts:date>", 1)
	reg := registry.New()
	book, err := Parse(strings.NewReader(doc), reg)
	if err != nil {
		t.Fatalf("Parse() returned unexpected error: %v", err)
	}
	if len(book.Prices) != 0 {
		t.Errorf("parsed %d prices, want the bad price discarded", len(book.Prices))
	}
	if book.Warnings == nil {
		t.Error("discarding a price must be recorded as a warning")
	}
}

func TestParseAbortsOnUnknownAccountRef(t *testing.T) {
	doc := strings.Replace(sampleDoc,
		`<split:account type="guid">a0000000000000000000000000000004</split:account>`,
		`<split:account type="guid">ffffffffffffffffffffffffffffffff</split:account>`, 1)
	reg := registry.New()
	if _, err := Parse(strings.NewReader(doc), reg); err == nil {
		t.Fatal("Parse() succeeded, want abort on non-existent account reference")
	}
}

func TestParseDates(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2023-06-15T10:00:00Z", time.Date(2023, time.June, 15, 10, 0, 0, 0, time.UTC)},
		{"2023-06-15T10:00:00+02:00", time.Date(2023, time.June, 15, 10, 0, 0, 0, time.FixedZone("", 7200))},
		{"2023-06-15 10:00:00 +0000", time.Date(2023, time.June, 15, 10, 0, 0, 0, time.UTC)},
		{"2023-06-15 10:00:00", time.Date(2023, time.June, 15, 10, 0, 0, 0, time.UTC)},
		{"2023-06-15", time.Date(2023, time.June, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			got, err := parseDate(test.input)
			if err != nil {
				t.Fatalf("parseDate(%q) returned unexpected error: %v", test.input, err)
			}
			if !got.Equal(test.want) {
				t.Errorf("parseDate(%q) = %s, want %s", test.input, got, test.want)
			}
		})
	}
	if _, err := parseDate("yesterday-ish"); err == nil {
		t.Error("parseDate accepted garbage")
	}
}
