// Package notify implements a synchronous listener list.
package notify

// List fans a value out to its subscribers in subscription order. It does
// no locking and makes no promise about subscribers that mutate the list or
// its owner while being notified.
type List[T any] struct {
	next uint64
	subs []subscriber[T]
}

type subscriber[T any] struct {
	id uint64
	fn func(T)
}

// Subscribe registers fn and returns a function that removes it. The
// returned cancel is idempotent.
func (l *List[T]) Subscribe(fn func(T)) (cancel func()) {
	l.next++
	id := l.next
	l.subs = append(l.subs, subscriber[T]{id: id, fn: fn})
	return func() { l.remove(id) }
}

func (l *List[T]) remove(id uint64) {
	for i, s := range l.subs {
		if s.id == id {
			l.subs = append(l.subs[:i:i], l.subs[i+1:]...)
			return
		}
	}
}

// Notify calls every subscriber once with v.
func (l *List[T]) Notify(v T) {
	for _, s := range l.subs {
		s.fn(v)
	}
}

// Len returns the number of subscribers.
func (l *List[T]) Len() int { return len(l.subs) }
