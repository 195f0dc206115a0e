package journal

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/rickgao/ctsp-server/internal/metrics"
	"github.com/rickgao/ctsp-server/internal/model"
)

// Entry is one executed trade attributed to its account.
type Entry struct {
	Username string
	Record   model.TradeRecord
}

// Journal consumes executed trades off a queue and records them.
type Journal struct {
	logger *slog.Logger
	queue  *Queue[Entry]

	recorded atomic.Int64
	dropped  atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a journal with the given initial queue capacity.
func New(bufferSize int, logger *slog.Logger) *Journal {
	if logger == nil {
		logger = slog.Default()
	}
	return &Journal{
		logger: logger,
		queue:  NewQueue[Entry](bufferSize),
	}
}

// Record enqueues a trade. It never blocks; after shutdown the entry is
// counted as dropped.
func (j *Journal) Record(username string, rec model.TradeRecord) {
	if !j.queue.Push(Entry{Username: username, Record: rec}) {
		j.dropped.Add(1)
	}
}

// Start begins the consumer goroutine.
func (j *Journal) Start(ctx context.Context) error {
	j.ctx, j.cancel = context.WithCancel(ctx)

	// Closing the queue on cancellation unblocks the consumer, which then
	// drains whatever is left before exiting.
	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		<-j.ctx.Done()
		j.queue.Close()
	}()

	j.wg.Add(1)
	go j.consumeLoop()

	j.logger.Info("trade journal started")
	return nil
}

// Stop gracefully shuts down, draining buffered entries.
func (j *Journal) Stop(ctx context.Context) error {
	if j.cancel != nil {
		j.cancel()
	}

	done := make(chan struct{})
	go func() {
		j.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		j.logger.Info("trade journal stopped",
			"recorded", j.recorded.Load(),
			"dropped", j.dropped.Load(),
		)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (j *Journal) consumeLoop() {
	defer j.wg.Done()

	for {
		e, ok := j.queue.Pop()
		if !ok {
			return
		}
		j.recorded.Add(1)
		metrics.TradesTotal.WithLabelValues(string(e.Record.Type)).Inc()
		j.logger.Info("trade executed",
			"username", e.Username,
			"side", e.Record.Type,
			"coin", e.Record.Coin,
			"amount", e.Record.Amount,
			"price", e.Record.Price,
		)
	}
}
