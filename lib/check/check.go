// Package check validates candidate transactions before they are
// written. Problems are collected and returned, never panicked: callers
// decide whether to block the write or surface the errors.
package check

import (
	"fmt"

	"github.com/biker2000on/gnucash-web-sub001/lib/fraction"
	"github.com/biker2000on/gnucash-web-sub001/lib/model/registry"
	"github.com/biker2000on/gnucash-web-sub001/lib/model/transaction"
)

// maxImbalance absorbs rounding noise from legacy floating-point
// imports. One constant across all currencies.
var maxImbalance = fraction.New(1, 100000)

// FieldError describes one problem with a proposed transaction.
type FieldError struct {
	Field string
	Msg   string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// Result is the outcome of validating one transaction.
type Result struct {
	Valid  bool
	Errors []FieldError
}

// Transaction validates a candidate transaction. It is a pure function
// of its input and has no side effects.
func Transaction(t *transaction.Transaction) Result {
	var errs []FieldError

	if t.Currency == nil {
		errs = append(errs, FieldError{Field: "currency", Msg: "transaction has no currency"})
	} else if !t.Currency.IsCurrency() {
		errs = append(errs, FieldError{Field: "currency", Msg: fmt.Sprintf("commodity %s is not a currency", t.Currency)})
	}
	if t.DatePosted.IsZero() {
		errs = append(errs, FieldError{Field: "date_posted", Msg: "transaction has no post date"})
	}
	if t.Description == "" {
		errs = append(errs, FieldError{Field: "description", Msg: "description must not be empty"})
	}
	if len(t.Splits) < 2 {
		errs = append(errs, FieldError{Field: "splits", Msg: fmt.Sprintf("transaction needs at least 2 splits, has %d", len(t.Splits))})
	}

	valuesOK := len(t.Splits) >= 2
	for i, s := range t.Splits {
		field := func(name string) string { return fmt.Sprintf("splits[%d].%s", i, name) }
		if !registry.ValidGUID(s.AccountGUID) {
			errs = append(errs, FieldError{Field: field("account"), Msg: fmt.Sprintf("malformed account reference %q", s.AccountGUID)})
		}
		if s.Value.Denom == 0 {
			valuesOK = false
			errs = append(errs, FieldError{Field: field("value"), Msg: "value has zero denominator"})
		}
		if s.Reconcile != "" && !s.Reconcile.Valid() {
			errs = append(errs, FieldError{Field: field("reconcile_state"), Msg: fmt.Sprintf("invalid reconcile state %q", s.Reconcile)})
		}
	}

	// The balance check needs every value to be well-formed.
	if valuesOK {
		sum := t.Balance()
		if sum.Neg().Cmp(maxImbalance) > 0 || sum.Cmp(maxImbalance) > 0 {
			errs = append(errs, FieldError{Field: "splits", Msg: fmt.Sprintf("splits do not balance: sum is %s", sum.DecimalString())})
		}
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}
