package experience

import (
	"errors"
	"math/rand"
	"sync"

	"github.com/rs/zerolog"
)

var (
	// ErrBufferClosed is returned when operations are attempted on a closed buffer
	ErrBufferClosed = errors.New("experience buffer is closed")
)

const DefaultBufferCapacity = 10000

// Buffer is a thread-safe circular buffer of transitions. When full, the
// oldest transition is overwritten.
type Buffer struct {
	mu       sync.RWMutex
	buffer   []Transition
	capacity int
	size     int
	head     int // next write position
	tail     int // oldest entry
	closed   bool

	totalAdded   int64
	totalDropped int64

	logger zerolog.Logger
}

var _ Sink = (*Buffer)(nil)

// NewBuffer creates a buffer; a non-positive capacity selects the default
func NewBuffer(capacity int, logger zerolog.Logger) *Buffer {
	if capacity <= 0 {
		capacity = DefaultBufferCapacity
	}
	return &Buffer{
		buffer:   make([]Transition, capacity),
		capacity: capacity,
		logger:   logger.With().Str("component", "experience_buffer").Logger(),
	}
}

// Add appends t, dropping the oldest transition if the buffer is full
func (b *Buffer) Add(t Transition) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBufferClosed
	}
	b.addLocked(t)
	return nil
}

func (b *Buffer) addLocked(t Transition) {
	if b.size >= b.capacity {
		b.tail = (b.tail + 1) % b.capacity
		b.totalDropped++
	} else {
		b.size++
	}
	b.buffer[b.head] = t
	b.head = (b.head + 1) % b.capacity
	b.totalAdded++
}

// GetLatest returns the n most recent transitions, oldest first, without
// removing them.
func (b *Buffer) GetLatest(n int) []Transition {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if n > b.size {
		n = b.size
	}
	if n < 0 {
		n = 0
	}
	result := make([]Transition, n)
	for i := 0; i < n; i++ {
		idx := (b.head - n + i + b.capacity) % b.capacity
		result[i] = b.buffer[idx]
	}
	return result
}

// Sample draws n transitions uniformly with replacement
func (b *Buffer) Sample(n int, rng *rand.Rand) []Transition {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.size == 0 || n <= 0 {
		return []Transition{}
	}
	result := make([]Transition, n)
	for i := range result {
		idx := (b.tail + rng.Intn(b.size)) % b.capacity
		result[i] = b.buffer[idx]
	}
	return result
}

func (b *Buffer) Size() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}

// Close rejects further writes. Reads keep working.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	b.logger.Info().
		Int64("total_added", b.totalAdded).
		Int64("total_dropped", b.totalDropped).
		Msg("Buffer closed")
	return nil
}

// BufferStats contains buffer statistics
type BufferStats struct {
	CurrentSize    int
	Capacity       int
	TotalAdded     int64
	TotalDropped   int64
	UtilizationPct float64
}

func (b *Buffer) Stats() BufferStats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return BufferStats{
		CurrentSize:    b.size,
		Capacity:       b.capacity,
		TotalAdded:     b.totalAdded,
		TotalDropped:   b.totalDropped,
		UtilizationPct: float64(b.size) / float64(b.capacity) * 100,
	}
}
