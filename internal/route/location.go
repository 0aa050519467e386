package route

// MemoryLocation is an in-process Location with browser-like history. Every
// hash change, including Back and Forward, is reported to the change listener.
type MemoryLocation struct {
	entries  []string
	pos      int
	onChange func()
}

// NewMemoryLocation starts the history at hash.
func NewMemoryLocation(hash string) *MemoryLocation {
	return &MemoryLocation{entries: []string{hash}}
}

// OnChange sets the hash-change listener, typically Navigator.HashChanged.
func (l *MemoryLocation) OnChange(fn func()) {
	l.onChange = fn
}

func (l *MemoryLocation) Hash() string {
	return l.entries[l.pos]
}

// SetHash pushes a new history entry and drops any forward entries.
// Assigning the current hash is not a change.
func (l *MemoryLocation) SetHash(hash string) {
	if hash == l.entries[l.pos] {
		return
	}
	l.entries = append(l.entries[:l.pos+1], hash)
	l.pos++
	l.fire()
}

// Back moves one entry back in history. It reports false at the oldest entry.
func (l *MemoryLocation) Back() bool {
	if l.pos == 0 {
		return false
	}
	l.pos--
	l.fire()
	return true
}

// Forward moves one entry forward in history.
func (l *MemoryLocation) Forward() bool {
	if l.pos >= len(l.entries)-1 {
		return false
	}
	l.pos++
	l.fire()
	return true
}

func (l *MemoryLocation) fire() {
	if l.onChange != nil {
		l.onChange()
	}
}
