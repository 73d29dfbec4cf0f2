package interchange

import (
	"bufio"
	"compress/gzip"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"golang.org/x/text/encoding/charmap"

	"github.com/biker2000on/gnucash-web-sub001/lib/fraction"
	"github.com/biker2000on/gnucash-web-sub001/lib/model/account"
	"github.com/biker2000on/gnucash-web-sub001/lib/model/budget"
	"github.com/biker2000on/gnucash-web-sub001/lib/model/commodity"
	"github.com/biker2000on/gnucash-web-sub001/lib/model/price"
	"github.com/biker2000on/gnucash-web-sub001/lib/model/registry"
	"github.com/biker2000on/gnucash-web-sub001/lib/model/transaction"
)

// templateSpace holds the internal bookkeeping entities of scheduled
// transactions; they are not commodities of the book.
const templateSpace = "template"

// Parse decodes a document and resolves it into entities against the
// given registry. Records that cannot be recovered are discarded and
// collected in Book.Warnings; structural failures return an error and
// the import must be abandoned. Gzip-compressed input is detected
// transparently.
func Parse(r io.Reader, reg *registry.Registry) (*Book, error) {
	br := bufio.NewReader(r)
	var src io.Reader = br
	if hdr, err := br.Peek(2); err == nil && hdr[0] == 0x1f && hdr[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("reading compressed document: %w", err)
		}
		defer gz.Close()
		src = gz
	}
	dec := xml.NewDecoder(src)
	dec.CharsetReader = charsetReader
	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}

	p := &parser{reg: reg, book: new(Book)}
	p.book.GUID = doc.Book.ID.Value
	if p.book.GUID == "" {
		p.book.GUID = registry.NewGUID()
	}
	if err := p.commodities(doc.Book.Commodities); err != nil {
		return nil, err
	}
	if err := p.accounts(doc.Book.Accounts); err != nil {
		return nil, err
	}
	if err := p.transactions(doc.Book.Transactions); err != nil {
		return nil, err
	}
	p.prices(doc.Book.PriceDB.Prices)
	p.budgets(doc.Book.Budgets)
	p.verifyCounts(doc.Book.Counts)
	p.book.Warnings = p.warnings
	return p.book, nil
}

func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "utf-8", "us-ascii", "":
		return input, nil
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1.NewDecoder().Reader(input), nil
	case "windows-1252":
		return charmap.Windows1252.NewDecoder().Reader(input), nil
	}
	return nil, fmt.Errorf("unsupported charset %q", charset)
}

type parser struct {
	reg      *registry.Registry
	book     *Book
	currency *commodity.Commodity
	warnings error
}

func (p *parser) warnf(format string, args ...any) {
	p.warnings = multierr.Append(p.warnings, fmt.Errorf(format, args...))
}

func (p *parser) commodities(cs []commodityXML) error {
	for _, c := range cs {
		if c.Space == templateSpace {
			continue
		}
		frac := c.Fraction
		if frac <= 0 {
			p.warnf("commodity %s:%s: invalid fraction %d, using 100", c.Space, c.ID, c.Fraction)
			frac = 100
		}
		cm, known := p.reg.Commodities().Get(c.Space, c.ID)
		if !known {
			cm = &commodity.Commodity{Space: c.Space, ID: c.ID}
		}
		cm.Name = c.Name
		cm.XCode = c.XCode
		cm.Fraction = frac
		cm.GetQuotes = c.GetQuotes != nil
		cm.QuoteSource = c.QuoteSource
		cm.QuoteTZ = c.QuoteTZ
		if !known {
			if err := p.reg.Commodities().Insert(cm); err != nil {
				p.warnf("discarding commodity: %v", err)
				continue
			}
		}
		p.book.Commodities = append(p.book.Commodities, cm)
	}
	return nil
}

// resolveCurrency determines the book's base currency: the document
// root's currency if resolvable, otherwise any currency commodity of
// the document, otherwise a synthesized USD. Finding none at all is a
// structural failure.
func (p *parser) resolveCurrency(docRoot *accountXML) error {
	if docRoot != nil && docRoot.Commodity != nil {
		if c, ok := p.reg.Commodities().Get(docRoot.Commodity.Space, docRoot.Commodity.ID); ok && c.IsCurrency() {
			p.currency = c
			return nil
		}
	}
	if cs := p.reg.Commodities().Currencies(); len(cs) > 0 {
		p.currency = cs[0]
		return nil
	}
	usd, err := p.reg.Commodities().Create(commodity.CurrencySpace, "USD")
	if err != nil {
		return fmt.Errorf("no base currency resolvable: %w", err)
	}
	p.warnf("no currency commodity in document, synthesized USD")
	p.currency = usd
	p.book.Commodities = append(p.book.Commodities, usd)
	return nil
}

func (p *parser) accounts(as []accountXML) error {
	index := make(map[string]*accountXML, len(as))
	for i := range as {
		a := &as[i]
		if a.ID.Value == "" {
			p.warnf("discarding account %q: missing GUID", a.Name)
			continue
		}
		index[a.ID.Value] = a
	}

	docRoot := findDocRoot(as, index)
	if err := p.resolveCurrency(docRoot); err != nil {
		return err
	}

	// The target book holds exactly one root. Reuse the registry's if
	// present, otherwise adopt the document's (keeping its GUID) or
	// make one up.
	root, ok := p.reg.Accounts().Root()
	if !ok {
		root = &account.Account{
			GUID:      registry.NewGUID(),
			Name:      "Root Account",
			Type:      account.ROOT,
			Commodity: p.currency,
		}
		if docRoot != nil {
			root.GUID = docRoot.ID.Value
			root.Name = docRoot.Name
		}
		if err := p.reg.Accounts().Add(root); err != nil {
			return fmt.Errorf("creating root account: %w", err)
		}
		p.book.Accounts = append(p.book.Accounts, root)
	}
	p.book.RootGUID = root.GUID

	// Parent-before-child creation order, regardless of document
	// order: the persistence layer requires every parent to exist
	// before its children.
	var (
		order   []*accountXML
		ordered = make(map[string]bool, len(index))
		visit   func(a *accountXML)
	)
	visit = func(a *accountXML) {
		if ordered[a.ID.Value] {
			return
		}
		ordered[a.ID.Value] = true
		if a.Parent != nil {
			if parent, ok := index[a.Parent.Value]; ok {
				visit(parent)
			}
		}
		order = append(order, a)
	}
	for i := range as {
		if a := &as[i]; index[a.ID.Value] == a {
			visit(a)
		}
	}

	for _, a := range order {
		if docRoot != nil && a.ID.Value == docRoot.ID.Value {
			continue
		}
		typ, err := account.ParseType(a.Type)
		if err != nil {
			return fmt.Errorf("account %s: %w", a.ID.Value, err)
		}
		parentGUID := root.GUID
		if a.Parent != nil && (docRoot == nil || a.Parent.Value != docRoot.ID.Value) {
			parentGUID = a.Parent.Value
		}
		acc := &account.Account{
			GUID:        a.ID.Value,
			Name:        a.Name,
			Type:        typ,
			Commodity:   p.commodityRef(a.Commodity, fmt.Sprintf("account %s", a.ID.Value)),
			ParentGUID:  parentGUID,
			Description: a.Description,
		}
		if err := p.reg.Accounts().Add(acc); err != nil {
			return fmt.Errorf("creating account: %w", err)
		}
		p.book.Accounts = append(p.book.Accounts, acc)
	}
	return nil
}

// findDocRoot detects the document's own root account: explicit ROOT
// type first, a parentless account otherwise.
func findDocRoot(as []accountXML, index map[string]*accountXML) *accountXML {
	for i := range as {
		if as[i].Type == account.ROOT.String() && index[as[i].ID.Value] == &as[i] {
			return &as[i]
		}
	}
	for i := range as {
		if as[i].Parent == nil && index[as[i].ID.Value] == &as[i] {
			return &as[i]
		}
	}
	return nil
}

// commodityRef resolves a commodity reference, creating the commodity
// if needed and falling back to the book currency when that fails.
func (p *parser) commodityRef(ref *commodityRef, context string) *commodity.Commodity {
	if ref == nil {
		return p.currency
	}
	if c, ok := p.reg.Commodities().Get(ref.Space, ref.ID); ok {
		return c
	}
	c, err := p.reg.Commodities().Create(ref.Space, ref.ID)
	if err != nil {
		p.warnf("%s: unresolvable commodity %s:%s, using book currency: %v", context, ref.Space, ref.ID, err)
		return p.currency
	}
	p.book.Commodities = append(p.book.Commodities, c)
	return c
}

func (p *parser) transactions(ts []transactionXML) error {
	for _, t := range ts {
		posted, err := parseDate(t.DatePosted.Date)
		if err != nil {
			p.warnf("discarding transaction %s: %v", t.ID.Value, err)
			continue
		}
		entered, err := parseDate(t.DateEntered.Date)
		if err != nil {
			p.warnf("transaction %s: %v", t.ID.Value, err)
			entered = posted
		}
		cur := p.currencyRef(t.Currency, fmt.Sprintf("transaction %s", t.ID.Value))
		tx := &transaction.Transaction{
			GUID:        t.ID.Value,
			Currency:    cur,
			DatePosted:  posted,
			DateEntered: entered,
			Num:         t.Num,
			Description: t.Description,
		}
		ok := true
		for _, s := range t.Splits {
			split, err := p.split(s)
			if err != nil {
				p.warnf("discarding transaction %s: %v", t.ID.Value, err)
				ok = false
				break
			}
			if _, found := p.reg.Accounts().Get(split.AccountGUID); !found {
				return fmt.Errorf("transaction %s references non-existent account %s", t.ID.Value, split.AccountGUID)
			}
			tx.Splits = append(tx.Splits, split)
		}
		if !ok {
			continue
		}
		p.book.Transactions = append(p.book.Transactions, tx)
	}
	return nil
}

func (p *parser) split(s splitXML) (*transaction.Split, error) {
	value, err := fraction.Parse(s.Value)
	if err != nil {
		return nil, fmt.Errorf("split %s: %w", s.ID.Value, err)
	}
	quantity := value
	if s.Quantity != "" {
		if quantity, err = fraction.Parse(s.Quantity); err != nil {
			return nil, fmt.Errorf("split %s: %w", s.ID.Value, err)
		}
	}
	state := transaction.ReconcileState(s.ReconcileState)
	if state == "" {
		state = transaction.NotReconciled
	}
	split := &transaction.Split{
		GUID:        s.ID.Value,
		AccountGUID: s.Account.Value,
		Value:       value,
		Quantity:    quantity,
		Memo:        s.Memo,
		Action:      s.Action,
		Reconcile:   state,
	}
	if s.Lot != nil {
		split.LotGUID = s.Lot.Value
	}
	if s.ReconcileDate != nil {
		if d, err := parseDate(s.ReconcileDate.Date); err == nil {
			split.ReconcileDate = d
		} else {
			p.warnf("split %s: %v", s.ID.Value, err)
		}
	}
	return split, nil
}

// currencyRef is like commodityRef but insists on a currency.
func (p *parser) currencyRef(ref commodityRef, context string) *commodity.Commodity {
	c := p.commodityRef(&ref, context)
	if !c.IsCurrency() {
		p.warnf("%s: %s is not a currency, using book currency", context, c)
		return p.currency
	}
	return c
}

func (p *parser) prices(ps []priceXML) {
	for _, pr := range ps {
		date, err := parseDate(pr.Time.Date)
		if err != nil {
			p.warnf("discarding price %s: %v", pr.ID.Value, err)
			continue
		}
		value, err := fraction.Parse(pr.Value)
		if err != nil {
			p.warnf("discarding price %s: %v", pr.ID.Value, err)
			continue
		}
		guid := pr.ID.Value
		if guid == "" {
			guid = registry.NewGUID()
		}
		p.book.Prices = append(p.book.Prices, &price.Price{
			GUID:      guid,
			Commodity: p.commodityRef(&pr.Commodity, fmt.Sprintf("price %s", guid)),
			Currency:  p.currencyRef(pr.Currency, fmt.Sprintf("price %s", guid)),
			Date:      date,
			Value:     value,
			Source:    pr.Source,
			Type:      pr.Type,
		})
	}
}

func (p *parser) budgets(bs []budgetXML) {
	for _, b := range bs {
		bgt := budget.New(b.ID.Value, b.Name, b.NumPeriods)
		bgt.Description = b.Description
		for _, slot := range b.Slots {
			if slot.Value.Type != "frame" {
				p.warnf("budget %s: slot %q is not a frame", b.ID.Value, slot.Key)
				continue
			}
			for _, period := range slot.Value.Slots {
				idx, err := strconv.Atoi(period.Key)
				if err != nil {
					p.warnf("budget %s: invalid period %q", b.ID.Value, period.Key)
					continue
				}
				amount, err := fraction.Parse(strings.TrimSpace(period.Value.Text))
				if err != nil {
					p.warnf("budget %s account %s period %d: %v", b.ID.Value, slot.Key, idx, err)
					continue
				}
				bgt.Set(slot.Key, idx, amount)
			}
		}
		p.book.Budgets = append(p.book.Budgets, bgt)
	}
}

// verifyCounts checks the document's own count-data against what was
// actually resolved. Mismatches are warnings: records may have been
// discarded above.
func (p *parser) verifyCounts(counts []countData) {
	got := map[string]int{
		"commodity":   len(p.book.Commodities),
		"account":     len(p.book.Accounts),
		"transaction": len(p.book.Transactions),
		"price":       len(p.book.Prices),
		"budget":      len(p.book.Budgets),
	}
	for _, c := range counts {
		if want, ok := got[c.Type]; ok && want != c.Value {
			p.warnf("document declares %d %s records, resolved %d", c.Value, c.Type, want)
		}
	}
}
