package interchange

import (
	"compress/gzip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/biker2000on/gnucash-web-sub001/lib/common/compare"
	"github.com/biker2000on/gnucash-web-sub001/lib/common/dict"
	"github.com/biker2000on/gnucash-web-sub001/lib/model/account"
	"github.com/biker2000on/gnucash-web-sub001/lib/model/budget"
	"github.com/biker2000on/gnucash-web-sub001/lib/model/commodity"
	"github.com/biker2000on/gnucash-web-sub001/lib/model/price"
	"github.com/biker2000on/gnucash-web-sub001/lib/model/transaction"
)

var namespaces = []string{
	`xmlns:gnc="http://www.gnucash.org/XML/gnc"`,
	`xmlns:act="http://www.gnucash.org/XML/act"`,
	`xmlns:book="http://www.gnucash.org/XML/book"`,
	`xmlns:cd="http://www.gnucash.org/XML/cd"`,
	`xmlns:cmdty="http://www.gnucash.org/XML/cmdty"`,
	`xmlns:price="http://www.gnucash.org/XML/price"`,
	`xmlns:slot="http://www.gnucash.org/XML/slot"`,
	`xmlns:split="http://www.gnucash.org/XML/split"`,
	`xmlns:trn="http://www.gnucash.org/XML/trn"`,
	`xmlns:ts="http://www.gnucash.org/XML/ts"`,
	`xmlns:bgt="http://www.gnucash.org/XML/bgt"`,
}

// Encode writes the book as a canonical document. With compress set,
// the serialized text is gzip-compressed.
func Encode(w io.Writer, book *Book, compress bool) error {
	if compress {
		gz := gzip.NewWriter(w)
		if err := encode(gz, book); err != nil {
			gz.Close()
			return err
		}
		return gz.Close()
	}
	return encode(w, book)
}

func encode(w io.Writer, book *Book) error {
	p := &printer{w: w}
	p.printf("<?xml version=\"1.0\" encoding=\"utf-8\" ?>\n")
	p.printf("<gnc-v2\n     %s>\n", strings.Join(namespaces, "\n     "))
	p.printf("<gnc:count-data cd:type=\"book\">1</gnc:count-data>\n")
	p.printf("<gnc:book version=\"2.0.0\">\n")
	p.printf("<book:id type=\"guid\">%s</book:id>\n", esc(book.GUID))

	p.count("commodity", len(book.Commodities))
	p.count("account", len(book.Accounts))
	p.count("transaction", len(book.Transactions))
	p.count("price", len(book.Prices))
	p.count("budget", len(book.Budgets))

	for _, c := range book.Commodities {
		p.commodity(c)
	}
	if len(book.Prices) > 0 {
		p.printf("<gnc:pricedb version=\"1\">\n")
		for _, pr := range book.Prices {
			p.price(pr)
		}
		p.printf("</gnc:pricedb>\n")
	}
	for _, a := range book.Accounts {
		p.account(a)
	}
	for _, t := range book.Transactions {
		p.transaction(t)
	}
	for _, b := range book.Budgets {
		p.budget(b)
	}

	p.printf("</gnc:book>\n")
	p.printf("</gnc-v2>\n")
	return p.err
}

// printer writes elements with a sticky error, so the emit code reads
// straight-line.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) elem(tag, value string) {
	p.printf("  <%s>%s</%s>\n", tag, esc(value), tag)
}

func (p *printer) count(typ string, n int) {
	if n > 0 {
		p.printf("<gnc:count-data cd:type=\"%s\">%d</gnc:count-data>\n", typ, n)
	}
}

func (p *printer) commodity(c *commodity.Commodity) {
	p.printf("<gnc:commodity version=\"2.0.0\">\n")
	p.elem("cmdty:space", c.Space)
	p.elem("cmdty:id", c.ID)
	if c.Name != "" {
		p.elem("cmdty:name", c.Name)
	}
	if c.XCode != "" {
		p.elem("cmdty:xcode", c.XCode)
	}
	p.printf("  <cmdty:fraction>%d</cmdty:fraction>\n", c.Fraction)
	if c.GetQuotes {
		p.printf("  <cmdty:get_quotes/>\n")
	}
	if c.QuoteSource != "" {
		p.elem("cmdty:quote_source", c.QuoteSource)
	}
	if c.QuoteTZ != "" {
		p.elem("cmdty:quote_tz", c.QuoteTZ)
	}
	p.printf("</gnc:commodity>\n")
}

func (p *printer) commodityRef(tag string, c *commodity.Commodity, indent string) {
	p.printf("%s<%s>\n", indent, tag)
	p.printf("%s  <cmdty:space>%s</cmdty:space>\n", indent, esc(c.Space))
	p.printf("%s  <cmdty:id>%s</cmdty:id>\n", indent, esc(c.ID))
	p.printf("%s</%s>\n", indent, tag)
}

func (p *printer) price(pr *price.Price) {
	p.printf("  <price>\n")
	p.printf("    <price:id type=\"guid\">%s</price:id>\n", esc(pr.GUID))
	p.commodityRef("price:commodity", pr.Commodity, "    ")
	p.commodityRef("price:currency", pr.Currency, "    ")
	p.printf("    <price:time>\n      <ts:date>%s</ts:date>\n    </price:time>\n", formatTimestamp(pr.Date))
	if pr.Source != "" {
		p.printf("    <price:source>%s</price:source>\n", esc(pr.Source))
	}
	if pr.Type != "" {
		p.printf("    <price:type>%s</price:type>\n", esc(pr.Type))
	}
	p.printf("    <price:value>%s</price:value>\n", pr.Value)
	p.printf("  </price>\n")
}

func (p *printer) account(a *account.Account) {
	p.printf("<gnc:account version=\"2.0.0\">\n")
	p.elem("act:name", a.Name)
	p.printf("  <act:id type=\"guid\">%s</act:id>\n", esc(a.GUID))
	p.elem("act:type", a.Type.String())
	if a.Commodity != nil {
		p.commodityRef("act:commodity", a.Commodity, "  ")
		p.printf("  <act:commodity-scu>%d</act:commodity-scu>\n", a.Commodity.Fraction)
	}
	if a.Description != "" {
		p.elem("act:description", a.Description)
	}
	if a.ParentGUID != "" {
		p.printf("  <act:parent type=\"guid\">%s</act:parent>\n", esc(a.ParentGUID))
	}
	p.printf("</gnc:account>\n")
}

func (p *printer) transaction(t *transaction.Transaction) {
	p.printf("<gnc:transaction version=\"2.0.0\">\n")
	p.printf("  <trn:id type=\"guid\">%s</trn:id>\n", esc(t.GUID))
	p.commodityRef("trn:currency", t.Currency, "  ")
	if t.Num != "" {
		p.elem("trn:num", t.Num)
	}
	p.printf("  <trn:date-posted>\n    <ts:date>%s</ts:date>\n  </trn:date-posted>\n", formatTimestamp(t.DatePosted))
	p.printf("  <trn:date-entered>\n    <ts:date>%s</ts:date>\n  </trn:date-entered>\n", formatTimestamp(t.DateEntered))
	p.elem("trn:description", t.Description)
	p.printf("  <trn:splits>\n")
	for _, s := range t.Splits {
		p.split(s)
	}
	p.printf("  </trn:splits>\n")
	p.printf("</gnc:transaction>\n")
}

func (p *printer) split(s *transaction.Split) {
	p.printf("    <trn:split>\n")
	p.printf("      <split:id type=\"guid\">%s</split:id>\n", esc(s.GUID))
	if s.Memo != "" {
		p.printf("      <split:memo>%s</split:memo>\n", esc(s.Memo))
	}
	if s.Action != "" {
		p.printf("      <split:action>%s</split:action>\n", esc(s.Action))
	}
	p.printf("      <split:reconciled-state>%s</split:reconciled-state>\n", s.Reconcile)
	if !s.ReconcileDate.IsZero() {
		p.printf("      <split:reconcile-date>\n        <ts:date>%s</ts:date>\n      </split:reconcile-date>\n", formatTimestamp(s.ReconcileDate))
	}
	p.printf("      <split:value>%s</split:value>\n", s.Value)
	p.printf("      <split:quantity>%s</split:quantity>\n", s.Quantity)
	p.printf("      <split:account type=\"guid\">%s</split:account>\n", esc(s.AccountGUID))
	if s.LotGUID != "" {
		p.printf("      <split:lot type=\"guid\">%s</split:lot>\n", esc(s.LotGUID))
	}
	p.printf("    </trn:split>\n")
}

func (p *printer) budget(b *budget.Budget) {
	p.printf("<gnc:budget version=\"2.0.0\">\n")
	p.printf("  <bgt:id type=\"guid\">%s</bgt:id>\n", esc(b.GUID))
	p.elem("bgt:name", b.Name)
	if b.Description != "" {
		p.elem("bgt:description", b.Description)
	}
	p.printf("  <bgt:num-periods>%d</bgt:num-periods>\n", b.NumPeriods)
	if len(b.Amounts) > 0 {
		p.printf("  <bgt:slots>\n")
		for _, accountGUID := range dict.SortedKeys(b.Amounts, compare.Ordered[string]) {
			periods := b.Amounts[accountGUID]
			p.printf("    <slot>\n")
			p.printf("      <slot:key>%s</slot:key>\n", esc(accountGUID))
			p.printf("      <slot:value type=\"frame\">\n")
			for _, period := range dict.SortedKeys(periods, compare.Ordered[int]) {
				p.printf("        <slot>\n")
				p.printf("          <slot:key>%d</slot:key>\n", period)
				p.printf("          <slot:value type=\"numeric\">%s</slot:value>\n", periods[period])
				p.printf("        </slot>\n")
			}
			p.printf("      </slot:value>\n")
			p.printf("    </slot>\n")
		}
		p.printf("  </bgt:slots>\n")
	}
	p.printf("</gnc:budget>\n")
}

func esc(s string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return s
	}
	return b.String()
}
