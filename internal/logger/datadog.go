package logger

import (
	"context"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/DataDog/datadog-api-client-go/v2/api/datadog"
	"github.com/DataDog/datadog-api-client-go/v2/api/datadogV2"
)

const (
	defaultDataDogTimeout    = 5 * time.Second
	defaultDataDogBufferSize = 1024
	dataDogSource            = "go"
	dataDogSink              = "datadog"
)

// logSubmitter is the part of datadogV2.LogsApi used by DataDogWriter.
type logSubmitter interface {
	SubmitLog(
		ctx context.Context, body []datadogV2.HTTPLogItem, o ...datadogV2.SubmitLogOptionalParameters,
	) (interface{}, *http.Response, error)
}

// DataDogWriter ships every written log line to the DataDog logs intake.
// Writes never block; entries are dropped when the queue is full.
type DataDogWriter struct {
	api      logSubmitter
	ctx      context.Context //nolint:containedctx
	cfg      DataDog
	hostname string

	mu      sync.RWMutex
	closed  bool
	entries chan []byte
	done    chan struct{}
}

// NewDataDogWriter creates a writer backed by the DataDog logs API.
func NewDataDogWriter(cfg DataDog) (*DataDogWriter, error) {
	if cfg.APIKey == "" {
		return nil, ErrDataDogAPIKeyIsEmpty
	}

	ctx := context.WithValue(
		context.Background(),
		datadog.ContextAPIKeys,
		map[string]datadog.APIKey{
			"apiKeyAuth": {Key: cfg.APIKey},
		},
	)

	if cfg.Site != "" {
		ctx = context.WithValue(ctx, datadog.ContextServerVariables, map[string]string{"site": cfg.Site})
	}

	api := datadogV2.NewLogsApi(datadog.NewAPIClient(datadog.NewConfiguration()))

	return newDataDogWriter(ctx, api, cfg), nil
}

func newDataDogWriter(ctx context.Context, api logSubmitter, cfg DataDog) *DataDogWriter {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultDataDogTimeout
	}

	if cfg.BufferSize <= 0 {
		cfg.BufferSize = defaultDataDogBufferSize
	}

	hostname, _ := os.Hostname()

	w := &DataDogWriter{
		api:      api,
		ctx:      ctx,
		cfg:      cfg,
		hostname: hostname,
		entries:  make(chan []byte, cfg.BufferSize),
		done:     make(chan struct{}),
	}

	go w.run()

	return w
}

// Write implements io.Writer. Entries written after Close are dropped.
func (w *DataDogWriter) Write(p []byte) (int, error) {
	entry := make([]byte, len(p))
	copy(entry, p)

	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		countShipFailure(dataDogSink, "closed")
		return len(p), nil
	}

	select {
	case w.entries <- entry:
	default:
		countShipFailure(dataDogSink, "queue_full")
		ErrorHandler(ErrDataDogQueueFull)
	}

	return len(p), nil
}

// Close stops accepting entries and waits until the queue is drained.
func (w *DataDogWriter) Close() error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.entries)
	}
	w.mu.Unlock()

	<-w.done

	return nil
}

func (w *DataDogWriter) run() {
	defer close(w.done)

	for entry := range w.entries {
		w.submit(entry)
	}
}

func (w *DataDogWriter) submit(entry []byte) {
	item := datadogV2.HTTPLogItem{
		Ddsource: datadog.PtrString(dataDogSource),
		Hostname: datadog.PtrString(w.hostname),
		Message:  string(entry),
		Service:  datadog.PtrString(w.cfg.ServiceName),
	}

	if w.cfg.Tags != "" {
		item.Ddtags = datadog.PtrString(w.cfg.Tags)
	}

	ctx, cancel := context.WithTimeout(w.ctx, w.cfg.Timeout)
	defer cancel()

	_, resp, err := w.api.SubmitLog(ctx, []datadogV2.HTTPLogItem{item})
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	if err != nil {
		countShipFailure(dataDogSink, "submit")
		ErrorHandler(err)
	}
}
