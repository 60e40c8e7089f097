package keyedmutex

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLockUnlock(t *testing.T) {
	m := New[string]()

	m.Lock("a")
	m.Unlock("a")
}

func TestDifferentKeysDoNotBlock(t *testing.T) {
	m := New[string]()

	m.Lock("a")
	done := make(chan struct{})
	go func() {
		m.Lock("b")
		m.Unlock("b")
		close(done)
	}()
	<-done
	m.Unlock("a")
}

func TestSameKeySerializes(t *testing.T) {
	m := New[string]()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Lock("a")
			counter++
			m.Unlock("a")
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestEntriesAreReclaimed(t *testing.T) {
	m := New[string]()

	for i := 0; i < 10; i++ {
		m.Lock("a")
		m.Unlock("a")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	assert.Empty(t, m.entries)
}

func TestUnlockWithoutLockPanics(t *testing.T) {
	m := New[string]()

	assert.Panics(t, func() {
		m.Unlock("a")
	})
}
