// Package audit records successful mutations. Recording is best
// effort: a failing sink never propagates into the mutation path.
package audit

import (
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Entry describes one applied mutation.
type Entry struct {
	Time   time.Time
	Action string
	Book   string
	Detail string
}

// Sink is notified after a mutation has been committed.
type Sink interface {
	Record(e Entry)
}

// Log appends ulid-stamped entries to an io.Writer.
type Log struct {
	mutex   sync.Mutex
	w       io.Writer
	entropy io.Reader
}

// NewLog creates a log writing to w.
func NewLog(w io.Writer) *Log {
	return &Log{
		w:       w,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

// Record appends the entry. Write errors are swallowed.
func (l *Log) Record(e Entry) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	id, err := ulid.New(ulid.Timestamp(e.Time), l.entropy)
	if err != nil {
		return
	}
	fmt.Fprintf(l.w, "%s %s %s %s %s\n", id, e.Time.UTC().Format(time.RFC3339), e.Action, e.Book, e.Detail)
}

// Discard is a Sink dropping every entry.
var Discard Sink = discard{}

type discard struct{}

func (discard) Record(Entry) {}
