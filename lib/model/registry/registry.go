package registry

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/biker2000on/gnucash-web-sub001/lib/model/account"
	"github.com/biker2000on/gnucash-web-sub001/lib/model/commodity"
)

type Account = account.Account
type Commodity = commodity.Commodity

// Registry holds the referenced accounts and commodities of a book.
type Registry struct {
	accounts    *account.Registry
	commodities *commodity.Registry
}

// New creates a new, empty registry.
func New() *Registry {
	return &Registry{
		accounts:    account.NewRegistry(),
		commodities: commodity.NewRegistry(),
	}
}

// Accounts returns the account registry.
func (reg *Registry) Accounts() *account.Registry {
	return reg.accounts
}

// Commodities returns the commodity registry.
func (reg *Registry) Commodities() *commodity.Registry {
	return reg.commodities
}

// NewGUID returns a new 32-character hexadecimal GUID.
func NewGUID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}

// ValidGUID reports whether s is a well-formed 32-character hexadecimal
// GUID.
func ValidGUID(s string) bool {
	if len(s) != 32 {
		return false
	}
	for _, c := range s {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}
