package journal

import (
	"context"
	"testing"
	"time"

	"github.com/rickgao/ctsp-server/internal/model"
)

func TestQueuePushPop(t *testing.T) {
	q := NewQueue[int](4)

	for i := 0; i < 3; i++ {
		if !q.Push(i) {
			t.Fatalf("Push(%d) returned false", i)
		}
	}
	if got := q.Len(); got != 3 {
		t.Errorf("Len = %d, want 3", got)
	}

	for i := 0; i < 3; i++ {
		v, ok := q.Pop()
		if !ok {
			t.Fatalf("Pop %d returned false", i)
		}
		if v != i {
			t.Errorf("Pop = %d, want %d", v, i)
		}
	}
}

func TestQueueGrows(t *testing.T) {
	q := NewQueue[int](2)

	// Push past the initial capacity; nothing may be lost or reordered.
	for i := 0; i < 100; i++ {
		q.Push(i)
	}
	if got := q.Len(); got != 100 {
		t.Fatalf("Len = %d, want 100", got)
	}
	for i := 0; i < 100; i++ {
		v, ok := q.TryPop()
		if !ok || v != i {
			t.Fatalf("TryPop = (%d, %v), want (%d, true)", v, ok, i)
		}
	}
}

func TestQueueGrowWrapped(t *testing.T) {
	q := NewQueue[int](4)

	// Wrap the ring before forcing a grow.
	for i := 0; i < 3; i++ {
		q.Push(i)
	}
	q.TryPop()
	q.TryPop()
	for i := 3; i < 10; i++ {
		q.Push(i)
	}

	want := 2
	for {
		v, ok := q.TryPop()
		if !ok {
			break
		}
		if v != want {
			t.Fatalf("TryPop = %d, want %d", v, want)
		}
		want++
	}
	if want != 10 {
		t.Errorf("drained up to %d, want 10", want)
	}
}

func TestQueueCloseDrains(t *testing.T) {
	q := NewQueue[int](4)
	q.Push(1)
	q.Push(2)
	q.Close()

	if q.Push(3) {
		t.Error("Push succeeded after Close")
	}

	// Buffered items drain, then Pop reports closed.
	if v, ok := q.Pop(); !ok || v != 1 {
		t.Errorf("Pop = (%d, %v), want (1, true)", v, ok)
	}
	if v, ok := q.Pop(); !ok || v != 2 {
		t.Errorf("Pop = (%d, %v), want (2, true)", v, ok)
	}
	if _, ok := q.Pop(); ok {
		t.Error("Pop succeeded on a closed empty queue")
	}
}

func TestQueuePopBlocksUntilPush(t *testing.T) {
	q := NewQueue[int](4)

	got := make(chan int, 1)
	go func() {
		v, _ := q.Pop()
		got <- v
	}()

	time.Sleep(20 * time.Millisecond)
	q.Push(42)

	select {
	case v := <-got:
		if v != 42 {
			t.Errorf("Pop = %d, want 42", v)
		}
	case <-time.After(time.Second):
		t.Fatal("Pop never woke up")
	}
}

func TestJournalRecordsTrades(t *testing.T) {
	j := New(4, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := j.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	for i := 0; i < 10; i++ {
		j.Record("ada", model.TradeRecord{Type: model.SideBuy, Coin: "BTC", Amount: 1, Price: 500})
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	if err := j.Stop(stopCtx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if got := j.recorded.Load(); got != 10 {
		t.Errorf("recorded = %d, want 10", got)
	}
	if got := j.dropped.Load(); got != 0 {
		t.Errorf("dropped = %d, want 0", got)
	}
}

func TestJournalDropsAfterStop(t *testing.T) {
	j := New(4, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := j.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	if err := j.Stop(stopCtx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	j.Record("ada", model.TradeRecord{Type: model.SideSell, Coin: "BTC", Amount: 1, Price: 500})
	if got := j.dropped.Load(); got != 1 {
		t.Errorf("dropped = %d, want 1", got)
	}
}
