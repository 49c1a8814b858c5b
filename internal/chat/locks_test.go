package chat_test

import (
	"sync"
	"testing"

	"storefront-ai/internal/chat"
)

func TestSessionLocksSerializeSameSession(t *testing.T) {
	locks := chat.NewSessionLocks()

	const iterations = 100
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				unlock := locks.Lock("session-a")
				counter++
				unlock()
			}
		}()
	}
	wg.Wait()

	if counter != 8*iterations {
		t.Fatalf("expected %d increments, got %d", 8*iterations, counter)
	}
}

func TestSessionLocksIndependentSessions(t *testing.T) {
	locks := chat.NewSessionLocks()

	unlockA := locks.Lock("session-a")
	defer unlockA()

	// A different session must not block behind session-a.
	done := make(chan struct{})
	go func() {
		unlockB := locks.Lock("session-b")
		unlockB()
		close(done)
	}()

	<-done
}

func TestSessionLocksReuseAfterRelease(t *testing.T) {
	locks := chat.NewSessionLocks()

	unlock := locks.Lock("session-a")
	unlock()

	// Relocking a released session must not deadlock.
	unlock = locks.Lock("session-a")
	unlock()
}
