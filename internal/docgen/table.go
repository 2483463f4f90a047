package docgen

import "sort"

// Table accumulates entries keyed by documentation key. Putting an existing
// key replaces its text in place, so the last write wins while iteration
// order stays that of first insertion.
type Table struct {
	index   map[string]int
	entries []Entry
}

// NewTable allocates an empty table.
func NewTable() *Table {
	return &Table{index: map[string]int{}}
}

// Put stores text under key.
func (t *Table) Put(key, text string) {
	if i, ok := t.index[key]; ok {
		t.entries[i].Text = text
		return
	}
	t.index[key] = len(t.entries)
	t.entries = append(t.entries, Entry{Key: key, Text: text})
}

// Get returns the text stored under key.
func (t *Table) Get(key string) (string, bool) {
	i, ok := t.index[key]
	if !ok {
		return "", false
	}
	return t.entries[i].Text, true
}

// Len returns the number of keys.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the entries in insertion order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Sorted returns a copy of the entries ordered by key.
func (t *Table) Sorted() []Entry {
	out := t.Entries()
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
