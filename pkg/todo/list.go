package todo

import (
	"github.com/vango-dev/todoview/pkg/reactive"
)

// List composes records into mounted items, keyed by record id.
type List struct {
	loop    *reactive.Loop
	counter *Counter
	toggler Toggler
	opts    ItemOptions

	byID  map[int64]*Item
	items *reactive.Signal[[]*Item]
}

// NewList creates an empty list whose items write to counter.
func NewList(loop *reactive.Loop, counter *Counter, toggler Toggler, opts ItemOptions) *List {
	return &List{
		loop:    loop,
		counter: counter,
		toggler: toggler,
		opts:    opts,
		byID:    make(map[int64]*Item),
		items:   reactive.NewSignal[[]*Item](nil),
	}
}

// Reconcile makes the mounted items match records. Items whose id is
// already mounted are kept as they are (their seed is never re-read), new
// ids are created and mounted in list order, and ids that disappeared are
// disposed. Reconciling an unchanged list changes nothing.
func (l *List) Reconcile(records []Record) {
	next := make([]*Item, 0, len(records))
	keep := make(map[int64]*Item, len(records))

	for _, rec := range records {
		if _, dup := keep[rec.ID]; dup {
			continue
		}
		it, ok := l.byID[rec.ID]
		if !ok {
			it = NewItem(l.loop, rec, l.counter, l.toggler, l.opts)
		}
		keep[rec.ID] = it
		next = append(next, it)
	}

	var removed []*Item
	for id, it := range l.byID {
		if _, ok := keep[id]; !ok {
			removed = append(removed, it)
		}
	}

	if !l.changed(next) {
		return
	}

	reactive.Batch(func() {
		for _, it := range removed {
			it.Dispose()
		}
		for _, it := range next {
			it.Mount()
		}
		l.byID = keep
		l.items.Set(next)
	})
	l.opts.Metrics.setMounted(len(next))
}

func (l *List) changed(next []*Item) bool {
	current := l.items.Peek()
	if len(current) != len(next) {
		return true
	}
	for i := range current {
		if current[i] != next[i] {
			return true
		}
	}
	return false
}

// Items returns the mounted items in list order and tracks them.
func (l *List) Items() []*Item {
	return l.items.Get()
}

// Len returns the number of mounted items and tracks it.
func (l *List) Len() int {
	return len(l.items.Get())
}

// Item looks up a mounted item by id without tracking.
func (l *List) Item(id int64) (*Item, bool) {
	it, ok := l.byID[id]
	return it, ok
}

// Dispose unmounts every item.
func (l *List) Dispose() {
	l.Reconcile(nil)
}
