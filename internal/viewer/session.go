package viewer

import "sync"

// ScrollLock suppresses page scrolling while held. Acquire returns the release func.
type ScrollLock interface {
	Acquire() (release func())
}

// Keyboard delivers key presses to subscribers until they unsubscribe.
type Keyboard interface {
	Subscribe(handler func(key string) bool) (unsubscribe func())
}

// Lock is a reference-counted ScrollLock. The page scrolls again once every holder has released.
type Lock struct {
	mu      sync.Mutex
	holders int
}

func (l *Lock) Acquire() func() {
	l.mu.Lock()
	l.holders++
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			l.holders--
			l.mu.Unlock()
		})
	}
}

// Locked reports whether scrolling is currently suppressed.
func (l *Lock) Locked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.holders > 0
}

// KeyBus is a Keyboard that dispatches each key to its subscribers in subscription order.
type KeyBus struct {
	subs   []keySub
	nextID int
}

type keySub struct {
	id      int
	handler func(string) bool
}

func (b *KeyBus) Subscribe(handler func(key string) bool) func() {
	id := b.nextID
	b.nextID++
	b.subs = append(b.subs, keySub{id: id, handler: handler})
	return func() {
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Dispatch delivers key and reports whether any subscriber handled it.
// Handlers may unsubscribe themselves while handling.
func (b *KeyBus) Dispatch(key string) bool {
	subs := append([]keySub(nil), b.subs...)
	handled := false
	for _, s := range subs {
		if s.handler(key) {
			handled = true
		}
	}
	return handled
}

// Len reports the number of active subscriptions.
func (b *KeyBus) Len() int {
	return len(b.subs)
}

// session is what a viewer holds while full-screen: the scroll lock and the
// key subscription, released together exactly once.
type session struct {
	once    sync.Once
	release []func()
}

func acquire(lock ScrollLock, keys Keyboard, handler func(string) bool) *session {
	s := &session{}
	if lock != nil {
		s.release = append(s.release, lock.Acquire())
	}
	if keys != nil {
		s.release = append(s.release, keys.Subscribe(handler))
	}
	return s
}

func (s *session) Release() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		for i := len(s.release) - 1; i >= 0; i-- {
			s.release[i]()
		}
	})
}
