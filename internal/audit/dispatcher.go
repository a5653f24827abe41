package audit

import (
	"context"
	"log/slog"
	"time"
)

const writeTimeout = 5 * time.Second

// Dispatcher decouples the event pipeline from the persistence collaborator:
// the engine enqueues records without blocking and a single consumer drains
// them to the sink. A full queue drops the record with a warning so a slow
// sink can never back up the pipeline.
type Dispatcher struct {
	sink   Sink
	logger *slog.Logger
	queue  chan Record
}

func NewDispatcher(sink Sink, queueSize int, logger *slog.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Dispatcher{
		sink:   sink,
		logger: logger,
		queue:  make(chan Record, queueSize),
	}
}

// Enqueue hands a record to the consumer. Never blocks; returns false when
// the queue is full and the record was dropped.
func (d *Dispatcher) Enqueue(record Record) bool {
	select {
	case d.queue <- record:
		return true
	default:
		d.logger.Warn("audit queue full, record dropped",
			"kind", record.Kind,
			"record_id", record.ID,
		)
		return false
	}
}

// Run drains the queue until ctx is cancelled, then flushes whatever is
// still buffered.
func (d *Dispatcher) Run(ctx context.Context) {
	d.logger.Info("audit dispatcher started", "queue_size", cap(d.queue))

	for {
		select {
		case <-ctx.Done():
			d.flush()
			d.logger.Info("audit dispatcher stopped")
			return
		case record := <-d.queue:
			d.write(record)
		}
	}
}

func (d *Dispatcher) flush() {
	for {
		select {
		case record := <-d.queue:
			d.write(record)
		default:
			return
		}
	}
}

func (d *Dispatcher) write(record Record) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := d.sink.Write(ctx, record); err != nil {
		d.logger.Error("failed to write audit record",
			"record_id", record.ID,
			"kind", record.Kind,
			"error", err,
		)
	}
}
