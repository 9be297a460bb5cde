package lock

import (
	"sync"

	"github.com/apex/log"
)

// KeyLocker serializes work per key (an entity id, or a grid name). Entries
// are reference counted so the map does not grow with every id ever seen.
type KeyLocker struct {
	mapMutex sync.Mutex
	keys     map[string]*keyMutex
}

type keyMutex struct {
	sync.Mutex
	refs int
}

func NewKeyLocker() *KeyLocker {
	return &KeyLocker{keys: make(map[string]*keyMutex)}
}

func (l *KeyLocker) AcquireLock(key string) {
	l.mapMutex.Lock()
	m, ok := l.keys[key]
	if !ok {
		m = &keyMutex{}
		l.keys[key] = m
	}
	m.refs++
	l.mapMutex.Unlock()

	m.Lock()
}

func (l *KeyLocker) ReleaseLock(key string) {
	l.mapMutex.Lock()
	defer l.mapMutex.Unlock()

	m, ok := l.keys[key]
	if !ok {
		log.Errorf("ReleaseLock called on key (%s) with no mutex", key)
		return
	}

	m.refs--
	if m.refs == 0 {
		delete(l.keys, key)
	}
	m.Unlock()
}

func (l *KeyLocker) WithLock(key string, f func() error) error {
	l.AcquireLock(key)
	defer l.ReleaseLock(key)
	return f()
}

// held reports how many keys currently have holders or waiters.
func (l *KeyLocker) held() int {
	l.mapMutex.Lock()
	defer l.mapMutex.Unlock()
	return len(l.keys)
}
