package messaging

import (
	"context"
	"io"
	"strconv"
	"sync"

	"go.uber.org/atomic"
)

// Memory is an in-process broker. Each group receives every message once;
// consumers without a group get their own copy. Nacked messages are
// redelivered to the same group.
type Memory struct {
	seq atomic.Uint64

	mu     sync.Mutex
	groups map[string]map[string]chan *memoryMessage
	closed bool
}

// NewMemory returns an empty in-process broker.
func NewMemory() *Memory {
	return &Memory{groups: make(map[string]map[string]chan *memoryMessage)}
}

// Close stops delivering messages. Running consumers return.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	for _, groups := range m.groups {
		for _, ch := range groups {
			close(ch)
		}
	}
	m.groups = nil
	return nil
}

// Publish fans the message out to every group consuming destination.
// It blocks while a group's queue is full.
func (m *Memory) Publish(ctx context.Context, destination string, msg OutgoingMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if destination == "" {
		return ErrDestinationRequired
	}

	id := strconv.FormatUint(m.seq.Inc(), 10)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return io.ErrClosedPipe
	}
	for _, ch := range m.groups[destination] {
		mm := &memoryMessage{id: id, body: msg.Body, headers: msg.Headers, queue: ch}
		select {
		case ch <- mm:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Consume registers the group on source and dispatches until ctx is done.
func (m *Memory) Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if source == "" {
		return ErrDestinationRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}

	co := newConsumeOptions(opts...)
	group := co.group
	if group == "" {
		group = "_" + strconv.FormatUint(m.seq.Inc(), 10)
	}

	ch, err := m.subscribe(source, group)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case mm, ok := <-ch:
					if !ok {
						return
					}
					//nolint:errcheck // nacked messages are requeued
					_ = dispatch(ctx, "memory", mm, handler)
				}
			}
		})
	}

	wg.Wait()
	return ctx.Err()
}

func (m *Memory) subscribe(source, group string) (chan *memoryMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, io.ErrClosedPipe
	}
	if m.groups[source] == nil {
		m.groups[source] = make(map[string]chan *memoryMessage)
	}
	ch, ok := m.groups[source][group]
	if !ok {
		ch = make(chan *memoryMessage, 64)
		m.groups[source][group] = ch
	}
	return ch, nil
}

type memoryMessage struct {
	responder
	id      string
	body    []byte
	headers []Header
	queue   chan *memoryMessage
}

func (m *memoryMessage) Body() []byte      { return m.body }
func (m *memoryMessage) Headers() []Header { return m.headers }
func (m *memoryMessage) ID() string        { return m.id }

func (m *memoryMessage) Ack(context.Context) error {
	m.claim()
	return nil
}

func (m *memoryMessage) Nack(ctx context.Context) error {
	if !m.claim() {
		return nil
	}

	retry := &memoryMessage{id: m.id, body: m.body, headers: m.headers, queue: m.queue}
	go func() {
		defer func() {
			// queue closed by Close
			_ = recover()
		}()
		select {
		case m.queue <- retry:
		case <-ctx.Done():
		}
	}()
	return nil
}
