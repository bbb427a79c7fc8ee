package service

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}

func Test_KeyedMutex_SerializesSameKey(t *testing.T) {
	// given
	locks := newKeyedMutex()
	key := uuid.New()
	var mu sync.Mutex
	inside, maxInside := 0, 0

	// when
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock(key)
			defer unlock()
			mu.Lock()
			inside++
			maxInside = max(maxInside, inside)
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	// then
	assert.Equal(t, 1, maxInside)
	assert.Zero(t, locks.size())
}

func Test_KeyedMutex_DifferentKeysDoNotBlock(t *testing.T) {
	locks := newKeyedMutex()
	unlockA := locks.Lock(uuid.New())
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := locks.Lock(uuid.New())
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on another key blocked")
	}
	assert.Equal(t, 1, locks.size())
}
