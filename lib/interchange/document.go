// Package interchange reads and writes the canonical hierarchical
// accounting document: commodities, a price database, the account
// forest, transactions with their splits, and budgets.
package interchange

import (
	"github.com/biker2000on/gnucash-web-sub001/lib/model/account"
	"github.com/biker2000on/gnucash-web-sub001/lib/model/budget"
	"github.com/biker2000on/gnucash-web-sub001/lib/model/commodity"
	"github.com/biker2000on/gnucash-web-sub001/lib/model/price"
	"github.com/biker2000on/gnucash-web-sub001/lib/model/transaction"
)

// Book is the parsed entity set of one document. Accounts are in
// creation order: every parent precedes its children.
type Book struct {
	GUID         string
	RootGUID     string
	Commodities  []*commodity.Commodity
	Accounts     []*account.Account
	Transactions []*transaction.Transaction
	Prices       []*price.Price
	Budgets      []*budget.Budget

	// Warnings collects records that were discarded or patched up
	// during parsing. The import as a whole still succeeded.
	Warnings error
}

// Decoding structs. Tags carry local names only: the decoder matches
// them against the namespaced elements of the document regardless of
// prefix.

type document struct {
	Counts []countData `xml:"count-data"`
	Book   bookXML     `xml:"book"`
}

type countData struct {
	Type  string `xml:"type,attr"`
	Value int    `xml:",chardata"`
}

type bookXML struct {
	ID           guidRef          `xml:"id"`
	Counts       []countData      `xml:"count-data"`
	Commodities  []commodityXML   `xml:"commodity"`
	PriceDB      pricedbXML       `xml:"pricedb"`
	Accounts     []accountXML     `xml:"account"`
	Transactions []transactionXML `xml:"transaction"`
	Budgets      []budgetXML      `xml:"budget"`
}

type guidRef struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

type commodityRef struct {
	Space string `xml:"space"`
	ID    string `xml:"id"`
}

type commodityXML struct {
	Space       string    `xml:"space"`
	ID          string    `xml:"id"`
	Name        string    `xml:"name"`
	XCode       string    `xml:"xcode"`
	Fraction    int64     `xml:"fraction"`
	GetQuotes   *struct{} `xml:"get_quotes"`
	QuoteSource string    `xml:"quote_source"`
	QuoteTZ     string    `xml:"quote_tz"`
}

type pricedbXML struct {
	Prices []priceXML `xml:"price"`
}

type priceXML struct {
	ID        guidRef      `xml:"id"`
	Commodity commodityRef `xml:"commodity"`
	Currency  commodityRef `xml:"currency"`
	Time      tsDate       `xml:"time"`
	Source    string       `xml:"source"`
	Type      string       `xml:"type"`
	Value     string       `xml:"value"`
}

type tsDate struct {
	Date string `xml:"date"`
}

type accountXML struct {
	Name         string        `xml:"name"`
	ID           guidRef       `xml:"id"`
	Type         string        `xml:"type"`
	Commodity    *commodityRef `xml:"commodity"`
	CommoditySCU int64         `xml:"commodity-scu"`
	Description  string        `xml:"description"`
	Parent       *guidRef      `xml:"parent"`
}

type transactionXML struct {
	ID          guidRef      `xml:"id"`
	Currency    commodityRef `xml:"currency"`
	Num         string       `xml:"num"`
	DatePosted  tsDate       `xml:"date-posted"`
	DateEntered tsDate       `xml:"date-entered"`
	Description string       `xml:"description"`
	Splits      []splitXML   `xml:"splits>split"`
}

type splitXML struct {
	ID             guidRef  `xml:"id"`
	ReconcileState string   `xml:"reconciled-state"`
	ReconcileDate  *tsDate  `xml:"reconcile-date"`
	Value          string   `xml:"value"`
	Quantity       string   `xml:"quantity"`
	Account        guidRef  `xml:"account"`
	Memo           string   `xml:"memo"`
	Action         string   `xml:"action"`
	Lot            *guidRef `xml:"lot"`
}

type budgetXML struct {
	ID          guidRef   `xml:"id"`
	Name        string    `xml:"name"`
	Description string    `xml:"description"`
	NumPeriods  int       `xml:"num-periods"`
	Slots       []slotXML `xml:"slots>slot"`
}

type slotXML struct {
	Key   string       `xml:"key"`
	Value slotValueXML `xml:"value"`
}

type slotValueXML struct {
	Type  string    `xml:"type,attr"`
	Text  string    `xml:",chardata"`
	Slots []slotXML `xml:"slot"`
}
