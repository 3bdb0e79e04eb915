// Package sync keeps in-memory collection mirrors consistent with the
// document store's change feed.
package sync

import (
	"sort"
	stdsync "sync"

	"github.com/sirupsen/logrus"

	"hotelops-backend/store"
)

// LessFunc orders two documents within a mirror snapshot.
type LessFunc func(a, b store.Doc) bool

// Mirror holds the latest full snapshot of one collection query. Every
// change notification replaces the snapshot wholesale; there is no
// incremental merging, so the mirror can never drift from the store.
// Stream errors are logged and leave the last-known snapshot in place.
type Mirror struct {
	collection  string
	log         *logrus.Logger
	less        LessFunc
	mu          stdsync.RWMutex
	docs        []store.Doc
	changes     chan struct{}
	unsubscribe func()
	closeOnce   stdsync.Once
}

// NewMirror subscribes to the collection and blocks until the initial
// snapshot has been delivered. Close must be called on teardown.
func NewMirror(st store.Store, collection string, filters []store.Filter, less LessFunc, log *logrus.Logger) *Mirror {
	m := &Mirror{collection: collection, less: less, log: log, changes: make(chan struct{}, 1)}
	m.unsubscribe = st.Subscribe(collection, filters, m.onSnapshot, m.onError)
	return m
}

func (m *Mirror) onSnapshot(docs []store.Doc) {
	sorted := make([]store.Doc, len(docs))
	copy(sorted, docs)
	if m.less != nil {
		// Stable, so equal-timestamp documents keep store order
		// across snapshots.
		sort.SliceStable(sorted, func(i, j int) bool { return m.less(sorted[i], sorted[j]) })
	}

	m.mu.Lock()
	m.docs = sorted
	m.mu.Unlock()

	select {
	case m.changes <- struct{}{}:
	default:
	}
}

// Changes signals after each snapshot replacement. Signals coalesce: a
// reader that falls behind sees one wakeup covering any number of
// replacements, then reads the latest state via Snapshot.
func (m *Mirror) Changes() <-chan struct{} {
	return m.changes
}

func (m *Mirror) onError(err error) {
	m.log.WithError(err).WithField("collection", m.collection).Error("change stream error, keeping last snapshot")
}

// Snapshot returns the current ordered mirror contents.
func (m *Mirror) Snapshot() []store.Doc {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]store.Doc, len(m.docs))
	copy(out, m.docs)
	return out
}

// Close unsubscribes from the change feed. Safe to call repeatedly.
func (m *Mirror) Close() {
	m.closeOnce.Do(m.unsubscribe)
}

// ByCreatedAt orders documents ascending by their normalized createdAt
// field, oldest first.
func ByCreatedAt(a, b store.Doc) bool {
	return store.TimeValue(a.Data["createdAt"]) < store.TimeValue(b.Data["createdAt"])
}

// ByField orders documents ascending by the string form of one field.
func ByField(field string) LessFunc {
	return func(a, b store.Doc) bool {
		return store.StringField(a.Data, field) < store.StringField(b.Data, field)
	}
}
