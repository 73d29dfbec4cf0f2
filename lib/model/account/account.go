package account

import (
	"fmt"
	"sync"

	"github.com/biker2000on/gnucash-web-sub001/lib/common/compare"
	"github.com/biker2000on/gnucash-web-sub001/lib/model/commodity"
)

// Type is the type of an account.
type Type int

const (
	ROOT Type = iota
	ASSET
	BANK
	CASH
	CREDIT
	LIABILITY
	EQUITY
	INCOME
	EXPENSE
	STOCK
	MUTUAL
	RECEIVABLE
	PAYABLE
	TRADING
)

var typeNames = map[Type]string{
	ROOT:       "ROOT",
	ASSET:      "ASSET",
	BANK:       "BANK",
	CASH:       "CASH",
	CREDIT:     "CREDIT",
	LIABILITY:  "LIABILITY",
	EQUITY:     "EQUITY",
	INCOME:     "INCOME",
	EXPENSE:    "EXPENSE",
	STOCK:      "STOCK",
	MUTUAL:     "MUTUAL",
	RECEIVABLE: "RECEIVABLE",
	PAYABLE:    "PAYABLE",
	TRADING:    "TRADING",
}

var types = func() map[string]Type {
	res := make(map[string]Type, len(typeNames))
	for t, n := range typeNames {
		res[n] = t
	}
	return res
}()

func (t Type) String() string {
	return typeNames[t]
}

// ParseType parses an account type name.
func ParseType(s string) (Type, error) {
	t, ok := types[s]
	if !ok {
		return ROOT, fmt.Errorf("invalid account type %q", s)
	}
	return t, nil
}

// Account represents one node of the account forest.
type Account struct {
	GUID        string
	Name        string
	Type        Type
	Commodity   *commodity.Commodity
	ParentGUID  string
	Description string
	Placeholder bool
	Hidden      bool
}

func (a *Account) String() string {
	return a.Name
}

func Compare(a1, a2 *Account) compare.Order {
	return compare.Ordered(a1.Name, a2.Name)
}

// Registry is a thread-safe collection of accounts, keyed by GUID.
type Registry struct {
	index map[string]*Account
	root  *Account
	mutex sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		index: make(map[string]*Account),
	}
}

// Get returns the account with the given GUID.
func (reg *Registry) Get(guid string) (*Account, bool) {
	reg.mutex.RLock()
	defer reg.mutex.RUnlock()
	a, ok := reg.index[guid]
	return a, ok
}

// Root returns the ROOT account of the book, if one has been added.
func (reg *Registry) Root() (*Account, bool) {
	reg.mutex.RLock()
	defer reg.mutex.RUnlock()
	return reg.root, reg.root != nil
}

// Add registers a new account. The parent must already exist, and a
// book holds exactly one ROOT account.
func (reg *Registry) Add(a *Account) error {
	if a.GUID == "" {
		return fmt.Errorf("account %q has no GUID", a.Name)
	}
	reg.mutex.Lock()
	defer reg.mutex.Unlock()
	if _, ok := reg.index[a.GUID]; ok {
		return fmt.Errorf("account %s already exists", a.GUID)
	}
	if a.Type == ROOT {
		if reg.root != nil {
			return fmt.Errorf("book already has a root account (%s)", reg.root.GUID)
		}
		if a.ParentGUID != "" {
			return fmt.Errorf("root account %s must not have a parent", a.GUID)
		}
		reg.root = a
	} else if a.ParentGUID != "" {
		if _, ok := reg.index[a.ParentGUID]; !ok {
			return fmt.Errorf("account %s references unknown parent %s", a.GUID, a.ParentGUID)
		}
	}
	reg.index[a.GUID] = a
	return nil
}

// Move re-parents an account. The move is refused if it would make the
// account an ancestor of itself.
func (reg *Registry) Move(guid, newParentGUID string) error {
	reg.mutex.Lock()
	defer reg.mutex.Unlock()
	a, ok := reg.index[guid]
	if !ok {
		return fmt.Errorf("unknown account %s", guid)
	}
	if a.Type == ROOT {
		return fmt.Errorf("cannot move the root account")
	}
	if _, ok := reg.index[newParentGUID]; !ok {
		return fmt.Errorf("unknown parent account %s", newParentGUID)
	}
	// Walk up from the new parent; hitting the moved account means the
	// move would create a cycle.
	for cur := newParentGUID; cur != ""; {
		if cur == guid {
			return fmt.Errorf("moving account %s under %s would create a cycle", guid, newParentGUID)
		}
		p, ok := reg.index[cur]
		if !ok {
			break
		}
		cur = p.ParentGUID
	}
	a.ParentGUID = newParentGUID
	return nil
}

// SplitCounter reports the number of splits booked against an account.
type SplitCounter interface {
	CountSplits(guid string) (int, error)
}

// Remove deletes an account. Accounts with children or with booked
// splits cannot be deleted.
func (reg *Registry) Remove(guid string, splits SplitCounter) error {
	reg.mutex.Lock()
	defer reg.mutex.Unlock()
	a, ok := reg.index[guid]
	if !ok {
		return fmt.Errorf("unknown account %s", guid)
	}
	for _, other := range reg.index {
		if other.ParentGUID == guid {
			return fmt.Errorf("account %s still has child %s", guid, other.GUID)
		}
	}
	if splits != nil {
		n, err := splits.CountSplits(guid)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("account %s still has %d splits", guid, n)
		}
	}
	if reg.root == a {
		reg.root = nil
	}
	delete(reg.index, guid)
	return nil
}

// Children returns the direct children of the given account, ordered by
// name.
func (reg *Registry) Children(guid string) []*Account {
	reg.mutex.RLock()
	var res []*Account
	for _, a := range reg.index {
		if a.ParentGUID == guid {
			res = append(res, a)
		}
	}
	reg.mutex.RUnlock()
	compare.Sort(res, Compare)
	return res
}

// All returns all accounts, ordered by name.
func (reg *Registry) All() []*Account {
	reg.mutex.RLock()
	res := make([]*Account, 0, len(reg.index))
	for _, a := range reg.index {
		res = append(res, a)
	}
	reg.mutex.RUnlock()
	compare.Sort(res, Compare)
	return res
}
