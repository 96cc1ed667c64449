package perf

// Memo caches Normalize results for the lifetime of one run. Limit
// strings are normalized once per candidate evaluation, which repeats the
// same handful of inputs across every raw result, so the cache is scoped
// to the pipeline invocation rather than the process.
type Memo struct {
	entries map[string]memoEntry
}

type memoEntry struct {
	value float64
	ok    bool
}

// NewMemo creates an empty per-run memo.
func NewMemo() *Memo {
	return &Memo{entries: make(map[string]memoEntry)}
}

// Normalize behaves like Normalize but remembers previous results.
// Not safe for concurrent use; resolution runs single-threaded.
func (m *Memo) Normalize(text string) (float64, bool) {
	if e, found := m.entries[text]; found {
		return e.value, e.ok
	}
	value, ok := Normalize(text)
	m.entries[text] = memoEntry{value: value, ok: ok}
	return value, ok
}
