package mutex

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedSerializesPerKey(t *testing.T) {
	var m Keyed[string]

	var a, b int
	counters := map[string]*int{"a": &a, "b": &b}
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		for _, key := range []string{"a", "b"} {
			wg.Add(1)
			go func(key string) {
				defer wg.Done()
				m.Lock(key)
				*counters[key]++
				m.Unlock(key)
			}(key)
		}
	}
	wg.Wait()

	assert.Equal(t, 100, a)
	assert.Equal(t, 100, b)
}

func TestKeyedDropsIdleEntries(t *testing.T) {
	var m Keyed[string]

	m.Lock("x")
	m.Unlock("x")

	entries := 0
	m.table.Range(func(any, any) bool {
		entries++
		return true
	})
	assert.Zero(t, entries)
}

func TestKeyedIndependentKeys(t *testing.T) {
	var m Keyed[string]

	m.Lock("a")
	locked := make(chan struct{})
	go func() {
		m.Lock("b")
		defer m.Unlock("b")
		close(locked)
	}()
	<-locked
	m.Unlock("a")
}
