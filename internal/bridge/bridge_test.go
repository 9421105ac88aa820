package bridge

import (
	"sync"
	"testing"
	"time"
)

func recvTimeout(t *testing.T, b *Bridge) (Command, bool) {
	t.Helper()
	select {
	case c, ok := <-b.C():
		return c, ok
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for command")
		return 0, false
	}
}

func TestBridge_FIFO(t *testing.T) {
	b := New()
	defer b.Close()

	want := []Command{Show, Hide, Refresh, Show, Exit}
	for _, c := range want {
		if !b.Send(c) {
			t.Fatalf("send %s failed", c)
		}
	}
	for i, w := range want {
		got, ok := recvTimeout(t, b)
		if !ok || got != w {
			t.Fatalf("command %d = %s (ok=%v), want %s", i, got, ok, w)
		}
	}
}

func TestBridge_SendNeverBlocks(t *testing.T) {
	b := New()
	defer b.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10000; i++ {
			b.Send(Refresh)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Send blocked without a reader")
	}
}

func TestBridge_ConcurrentProducersLoseNothing(t *testing.T) {
	b := New()
	defer b.Close()

	const producers, each = 4, 250
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < each; i++ {
				b.Send(Show)
			}
		}()
	}
	wg.Wait()

	for i := 0; i < producers*each; i++ {
		if _, ok := recvTimeout(t, b); !ok {
			t.Fatalf("bridge closed after %d commands", i)
		}
	}
}

func TestBridge_Close(t *testing.T) {
	b := New()
	b.Send(Show)
	b.Close()
	b.Close()

	if b.Send(Hide) {
		t.Fatalf("send after close should report false")
	}
	for {
		_, ok := recvTimeout(t, b)
		if !ok {
			return
		}
	}
}

func TestCommandString(t *testing.T) {
	if Show.String() != "show" || Exit.String() != "exit" || Command(0).String() != "unknown" {
		t.Fatalf("unexpected command names")
	}
}
