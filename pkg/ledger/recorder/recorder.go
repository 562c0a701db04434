package recorder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"mercator-hq/hermes/pkg/ledger"
)

// Config contains configuration for the session recorder.
type Config struct {
	// Enabled enables session recording.
	Enabled bool

	// AsyncBuffer is the size of the async write channel buffer.
	// Default: 1000
	AsyncBuffer int

	// WriteTimeout is the timeout for writing a record to storage.
	// Default: 5 seconds
	WriteTimeout time.Duration
}

// DefaultConfig returns the default recorder configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		AsyncBuffer:  1000,
		WriteTimeout: 5 * time.Second,
	}
}

// Recorder writes session records to ledger storage asynchronously.
// Record never blocks on storage: when the buffer is full the record is
// dropped rather than stalling session teardown.
type Recorder struct {
	storage    ledger.Storage
	config     *Config
	recordChan chan *ledger.SessionRecord
	wg         sync.WaitGroup
	done       chan struct{}
	closeOnce  sync.Once
	logger     *slog.Logger
}

// NewRecorder creates a session recorder with the provided storage backend
// and configuration, and starts its background write worker.
func NewRecorder(storage ledger.Storage, config *Config) *Recorder {
	if config == nil {
		config = DefaultConfig()
	}

	r := &Recorder{
		storage:    storage,
		config:     config,
		recordChan: make(chan *ledger.SessionRecord, config.AsyncBuffer),
		done:       make(chan struct{}),
		logger:     slog.Default().With("component", "ledger-recorder"),
	}

	r.wg.Add(1)
	go r.worker()

	r.logger.Info("session recorder initialized",
		"async_buffer", config.AsyncBuffer,
		"write_timeout", config.WriteTimeout,
	)

	return r
}

// Record enqueues a session record for async writing. It assigns the record
// ID and derives Duration when unset. Returns immediately; a full buffer
// drops the record.
func (r *Recorder) Record(ctx context.Context, record *ledger.SessionRecord) error {
	if !r.config.Enabled {
		return nil
	}

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.EndTime.IsZero() {
		record.EndTime = time.Now()
	}
	if record.Duration == 0 {
		record.Duration = record.EndTime.Sub(record.StartTime)
	}

	select {
	case <-r.done:
		return ledger.ErrRecorderClosed
	default:
	}

	select {
	case r.recordChan <- record:
		return nil
	default:
		r.logger.Warn("session record buffer full, dropping record",
			"record_id", record.ID,
			"request_id", record.RequestID,
			"channel_capacity", r.config.AsyncBuffer,
		)
		return nil
	}
}

// Close shuts down the recorder, draining buffered records to storage
// before returning.
func (r *Recorder) Close() error {
	r.closeOnce.Do(func() {
		close(r.done)
	})
	r.wg.Wait()
	r.logger.Info("session recorder shut down")
	return nil
}

// worker drains the record channel and writes records to storage.
func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case record := <-r.recordChan:
			r.writeRecord(record)

		case <-r.done:
			// Drain remaining records before exit.
			for {
				select {
				case record := <-r.recordChan:
					r.writeRecord(record)
				default:
					return
				}
			}
		}
	}
}

// writeRecord writes a single session record to storage.
func (r *Recorder) writeRecord(record *ledger.SessionRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	if err := r.storage.Store(ctx, record); err != nil {
		r.logger.Error("failed to store session record",
			"record_id", record.ID,
			"request_id", record.RequestID,
			"error", err,
		)
		return
	}

	r.logger.Debug("session recorded",
		"record_id", record.ID,
		"request_id", record.RequestID,
		"route", record.RoutePrefix,
		"status", record.Status,
	)
}
