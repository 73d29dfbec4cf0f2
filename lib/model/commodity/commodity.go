package commodity

import (
	"fmt"
	"sync"
	"unicode"

	"github.com/biker2000on/gnucash-web-sub001/lib/common/compare"
)

// CurrencySpace is the namespace of monetary commodities. Any other
// namespace denotes a tradeable security on the named exchange.
const CurrencySpace = "CURRENCY"

// Commodity represents a currency or security, identified by its
// namespace and mnemonic.
type Commodity struct {
	Space    string
	ID       string
	Name     string
	XCode    string
	Fraction int64

	// Quote metadata.
	GetQuotes   bool
	QuoteSource string
	QuoteTZ     string
}

// IsCurrency reports whether the commodity is money rather than a
// security.
func (c *Commodity) IsCurrency() bool {
	return c.Space == CurrencySpace
}

func (c *Commodity) String() string {
	return fmt.Sprintf("%s:%s", c.Space, c.ID)
}

func Compare(c1, c2 *Commodity) compare.Order {
	if o := compare.Ordered(c1.Space, c2.Space); o != compare.Equal {
		return o
	}
	return compare.Ordered(c1.ID, c2.ID)
}

type key struct {
	space, id string
}

// Registry is a thread-safe collection of commodities, keyed by
// (namespace, mnemonic).
type Registry struct {
	index map[key]*Commodity
	mutex sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		index: make(map[key]*Commodity),
	}
}

// Get returns the commodity with the given namespace and mnemonic, if
// known.
func (reg *Registry) Get(space, id string) (*Commodity, bool) {
	reg.mutex.RLock()
	defer reg.mutex.RUnlock()
	res, ok := reg.index[key{space, id}]
	return res, ok
}

// Create returns the commodity with the given namespace and mnemonic,
// creating it with a default fraction of 100 if it does not exist yet.
func (reg *Registry) Create(space, id string) (*Commodity, error) {
	reg.mutex.RLock()
	res, ok := reg.index[key{space, id}]
	reg.mutex.RUnlock()
	if ok {
		return res, nil
	}
	reg.mutex.Lock()
	defer reg.mutex.Unlock()
	// check if the commodity has been created in the meantime
	if res, ok = reg.index[key{space, id}]; ok {
		return res, nil
	}
	if !isValidMnemonic(id) {
		return nil, fmt.Errorf("invalid commodity mnemonic %q", id)
	}
	if space == "" {
		return nil, fmt.Errorf("empty commodity namespace for %q", id)
	}
	res = &Commodity{Space: space, ID: id, Fraction: 100}
	reg.index[key{space, id}] = res
	return res, nil
}

// Insert registers a fully specified commodity. The fraction must be
// positive.
func (reg *Registry) Insert(c *Commodity) error {
	if c.Fraction <= 0 {
		return fmt.Errorf("commodity %s: fraction must be positive, got %d", c, c.Fraction)
	}
	if !isValidMnemonic(c.ID) {
		return fmt.Errorf("invalid commodity mnemonic %q", c.ID)
	}
	reg.mutex.Lock()
	defer reg.mutex.Unlock()
	reg.index[key{c.Space, c.ID}] = c
	return nil
}

// All returns all commodities, ordered by namespace and mnemonic.
func (reg *Registry) All() []*Commodity {
	reg.mutex.RLock()
	res := make([]*Commodity, 0, len(reg.index))
	for _, c := range reg.index {
		res = append(res, c)
	}
	reg.mutex.RUnlock()
	compare.Sort(res, Compare)
	return res
}

// Currencies returns all commodities in the CURRENCY namespace, ordered
// by mnemonic.
func (reg *Registry) Currencies() []*Commodity {
	var res []*Commodity
	for _, c := range reg.All() {
		if c.IsCurrency() {
			res = append(res, c)
		}
	}
	return res
}

func isValidMnemonic(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, c := range s {
		if !(unicode.IsLetter(c) || unicode.IsDigit(c) || c == '.' || c == '_' || c == '-') {
			return false
		}
	}
	return true
}
