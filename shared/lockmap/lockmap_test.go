package lockmap_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"stay/shared/lockmap"
)

func TestRegistry_DoSerializesSameKey(t *testing.T) {
	registry := lockmap.New()

	const workers = 32

	var (
		wg      sync.WaitGroup
		inside  int
		maxSeen int
		mu      sync.Mutex
	)

	for range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_ = registry.Do("room-1", func() error {
				mu.Lock()
				inside++
				if inside > maxSeen {
					maxSeen = inside
				}
				mu.Unlock()

				mu.Lock()
				inside--
				mu.Unlock()

				return nil
			})
		}()
	}

	wg.Wait()

	assert.Equal(t, 1, maxSeen)
}

func TestRegistry_DistinctKeysDoNotBlock(t *testing.T) {
	registry := lockmap.New()

	release := make(chan struct{})
	holding := make(chan struct{})

	go func() {
		_ = registry.Do("room-1", func() error {
			close(holding)
			<-release

			return nil
		})
	}()

	<-holding

	// a different key proceeds while room-1 is held
	done := make(chan struct{})

	go func() {
		_ = registry.Do("room-2", func() error {
			return nil
		})
		close(done)
	}()

	<-done
	close(release)
}

func TestRegistry_ErrorPropagatesAndReleases(t *testing.T) {
	registry := lockmap.New()

	wantErr := assert.AnError

	err := registry.Do("room-1", func() error {
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	// the key is usable again after a failed critical section
	err = registry.Do("room-1", func() error {
		return nil
	})
	assert.NoError(t, err)
}

func TestRegistry_ConcurrentFirstUseConvergesOnOneHandle(t *testing.T) {
	registry := lockmap.New()

	const workers = 64

	var (
		wg      sync.WaitGroup
		counter int
	)

	for range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_ = registry.Do("fresh-key", func() error {
				// if two goroutines held different mutexes for the same
				// key, this increment would race under -race
				counter++

				return nil
			})
		}()
	}

	wg.Wait()

	assert.Equal(t, workers, counter)
}
