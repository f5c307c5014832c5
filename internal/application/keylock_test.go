package application

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyLock_SerializesSameKey(t *testing.T) {
	k := newKeyLock()
	var (
		wg      sync.WaitGroup
		counter int
	)
	for range 100 {
		wg.Go(func() {
			unlock := k.Lock("a")
			defer unlock()
			counter++
		})
	}
	wg.Wait()
	assert.Equal(t, 100, counter)
	assert.Zero(t, k.size())
}

func TestKeyLock_DistinctKeysDoNotBlock(t *testing.T) {
	k := newKeyLock()
	unlockA := k.Lock("a")
	unlockB := k.Lock("b")
	assert.Equal(t, 2, k.size())
	unlockA()
	unlockB()
	assert.Zero(t, k.size())
}
