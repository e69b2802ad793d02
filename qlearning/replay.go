package qlearning

import "snake-game/ai"

// Transition rappresenta un singolo step nell'ambiente
type Transition struct {
	State     ai.StateVector
	Action    ai.Action
	Reward    float64
	NextState ai.StateVector
	Done      bool
}

// ReplayMemory is a bounded FIFO of transitions backed by a ring buffer.
// Once full, every Push overwrites the oldest entry.
type ReplayMemory struct {
	buffer   []Transition
	capacity int
	position int // next slot to write once the buffer is full
}

// NewReplayMemory panics if capacity is not positive.
func NewReplayMemory(capacity int) *ReplayMemory {
	if capacity < 1 {
		panic("qlearning: replay memory capacity must be positive")
	}
	return &ReplayMemory{
		buffer:   make([]Transition, 0, min(capacity, 1024)),
		capacity: capacity,
	}
}

// Push aggiunge una transizione, sovrascrivendo la più vecchia quando il buffer è pieno.
func (m *ReplayMemory) Push(t Transition) {
	if len(m.buffer) < m.capacity {
		m.buffer = append(m.buffer, t)
		return
	}
	m.buffer[m.position] = t
	m.position = (m.position + 1) % m.capacity
}

func (m *ReplayMemory) Len() int {
	return len(m.buffer)
}

func (m *ReplayMemory) Cap() int {
	return m.capacity
}

func (m *ReplayMemory) IsFull() bool {
	return len(m.buffer) == m.capacity
}

// Oldest returns up to n transitions in insertion order, oldest first.
func (m *ReplayMemory) Oldest(n int) []Transition {
	if n > len(m.buffer) {
		n = len(m.buffer)
	}
	if n <= 0 {
		return nil
	}

	batch := make([]Transition, n)
	// position is 0 until the buffer wraps, so it is always the oldest slot
	copied := copy(batch, m.buffer[m.position:])
	if copied < n {
		copy(batch[copied:], m.buffer[:n-copied])
	}
	return batch
}
