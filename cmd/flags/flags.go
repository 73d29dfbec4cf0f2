// Package flags provides shared pflag value types for the commands.
package flags

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/biker2000on/gnucash-web-sub001/lib/model/registry"
)

// DateFlag manages a flag to determine a date.
type DateFlag time.Time

var _ pflag.Value = (*DateFlag)(nil)

func (tf DateFlag) String() string {
	return tf.Value().Format("2006-01-02")
}

// Set implements pflag.Value.
func (tf *DateFlag) Set(v string) error {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return err
	}
	*tf = DateFlag(t)
	return nil
}

// Type implements pflag.Value.
func (tf DateFlag) Type() string {
	return "YYYY-MM-DD"
}

// Value returns the flag value.
func (tf DateFlag) Value() time.Time {
	return time.Time(tf)
}

// ValueOr returns the flag value, or t if the flag was not set.
func (tf DateFlag) ValueOr(t time.Time) time.Time {
	v := tf.Value()
	if v.IsZero() {
		return t
	}
	return v
}

// GUIDFlag manages a flag holding an account GUID.
type GUIDFlag string

var _ pflag.Value = (*GUIDFlag)(nil)

func (gf GUIDFlag) String() string {
	return string(gf)
}

// Set implements pflag.Value.
func (gf *GUIDFlag) Set(v string) error {
	if !registry.ValidGUID(v) {
		return fmt.Errorf("invalid GUID %q", v)
	}
	*gf = GUIDFlag(v)
	return nil
}

// Type implements pflag.Value.
func (gf GUIDFlag) Type() string {
	return "<guid>"
}

// Value returns the flag value.
func (gf GUIDFlag) Value() string {
	return string(gf)
}
