// Package fs implements a filesystem-backed messaging.Queue on top of
// the afs abstraction. Messages are JSON files moved between state
// directories (pending → processing; an acknowledged message is deleted and
// a message that exhausts its retries moves to failed), which makes the
// queue content inspectable with ordinary tooling – handy for diagnosing
// a run by reading its monitor event log off disk.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"sort"
	"sync"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/saga/internal/clock"
	"github.com/viant/saga/internal/idgen"
	"github.com/viant/saga/service/messaging"
)

// Config holds configuration for a filesystem queue.
type Config struct {
	// BasePath is the base directory (or URL) for queue files.
	BasePath string
	// MaxRetries specifies how many times a message can be nacked before
	// it lands in the failed directory for good.
	MaxRetries int
}

// DefaultConfig returns a default queue configuration.
func DefaultConfig() Config {
	return Config{
		BasePath:   "/tmp/saga/queue",
		MaxRetries: 3,
	}
}

// Message implements messaging.Message for the filesystem queue.
type Message[T any] struct {
	ID        string    `json:"id"`
	Data      T         `json:"data"`
	CreatedAt time.Time `json:"createdAt"`
	Retries   int       `json:"retries"`

	location  string
	queue     *Queue[T]
	processed bool
	mu        sync.Mutex
}

// T returns the message payload.
func (m *Message[T]) T() *T { return &m.Data }

// Ack removes the message from the processing directory.
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true
	return m.queue.complete(context.Background(), m)
}

// Nack requeues the message, or moves it to the failed directory once
// the retry budget is exhausted.
func (m *Message[T]) Nack(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true
	m.Retries++
	return m.queue.fail(context.Background(), m)
}

// Queue implements a filesystem-based messaging.Queue.
type Queue[T any] struct {
	fs            afs.Service
	config        Config
	pendingDir    string
	processingDir string
	failedDir     string
	mu            sync.Mutex
}

// NewQueue creates a filesystem queue rooted at config.BasePath.
func NewQueue[T any](fs afs.Service, config Config) (*Queue[T], error) {
	if config.BasePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = DefaultConfig().MaxRetries
	}
	q := &Queue[T]{
		fs:            fs,
		config:        config,
		pendingDir:    path.Join(config.BasePath, "pending"),
		processingDir: path.Join(config.BasePath, "processing"),
		failedDir:     path.Join(config.BasePath, "failed"),
	}
	ctx := context.Background()
	for _, dir := range []string{q.pendingDir, q.processingDir, q.failedDir} {
		if exists, _ := fs.Exists(ctx, dir); !exists {
			if err := fs.Create(ctx, dir, file.DefaultDirOsMode, true); err != nil {
				return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}
	return q, nil
}

// Publish writes the payload as a pending JSON message file.
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	message := &Message[T]{
		ID:        idgen.New(),
		Data:      *t,
		CreatedAt: clock.Now(),
	}
	return q.upload(ctx, q.pendingDir, message)
}

// Consume moves the oldest pending message into processing and returns
// it; it blocks polling until a message arrives or ctx is done.
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	for {
		message, err := q.pop(ctx)
		if err != nil {
			return nil, err
		}
		if message != nil {
			return message, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
}

// Size returns the number of pending messages.
func (q *Queue[T]) Size() int {
	objects, err := q.fs.List(context.Background(), q.pendingDir)
	if err != nil {
		return 0
	}
	count := 0
	for _, object := range objects {
		if !object.IsDir() {
			count++
		}
	}
	return count
}

func (q *Queue[T]) pop(ctx context.Context) (*Message[T], error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	objects, err := q.fs.List(ctx, q.pendingDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending messages: %w", err)
	}
	names := make([]string, 0, len(objects))
	for _, object := range objects {
		if object.IsDir() {
			continue
		}
		names = append(names, object.Name())
	}
	if len(names) == 0 {
		return nil, nil
	}
	sort.Strings(names)
	name := names[0]
	data, err := q.fs.DownloadWithURL(ctx, path.Join(q.pendingDir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to download message %s: %w", name, err)
	}
	message := &Message[T]{}
	if err := json.Unmarshal(data, message); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message %s: %w", name, err)
	}
	message.queue = q
	message.location = path.Join(q.processingDir, name)
	if err := q.fs.Upload(ctx, message.location, file.DefaultFileOsMode, jsonReader(data)); err != nil {
		return nil, err
	}
	if err := q.fs.Delete(ctx, path.Join(q.pendingDir, name)); err != nil {
		return nil, err
	}
	return message, nil
}

func (q *Queue[T]) complete(ctx context.Context, m *Message[T]) error {
	return q.fs.Delete(ctx, m.location)
}

func (q *Queue[T]) fail(ctx context.Context, m *Message[T]) error {
	if err := q.fs.Delete(ctx, m.location); err != nil {
		return err
	}
	if m.Retries <= q.config.MaxRetries {
		return q.upload(ctx, q.pendingDir, m)
	}
	return q.upload(ctx, q.failedDir, m)
}

func (q *Queue[T]) upload(ctx context.Context, dir string, m *Message[T]) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	name := fmt.Sprintf("%d-%s.json", m.CreatedAt.UnixNano(), m.ID)
	return q.fs.Upload(ctx, path.Join(dir, name), file.DefaultFileOsMode, jsonReader(data))
}

func jsonReader(data []byte) io.Reader { return bytes.NewReader(data) }

// ensure Queue implements messaging.Queue interface
var _ messaging.Queue[any] = (*Queue[any])(nil)

