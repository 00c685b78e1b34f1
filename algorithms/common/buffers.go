package common

// RollingBuffer keeps the most recent Capacity samples. Writes never block;
// once full, each new sample evicts the oldest one.
type RollingBuffer struct {
	buffer   []float64
	size     int
	writePos int
	count    int
}

// NewRollingBuffer creates a rolling buffer holding at most size samples.
// Sizes below 1 are raised to 1.
func NewRollingBuffer(size int) *RollingBuffer {
	size = max(size, 1)
	return &RollingBuffer{
		buffer: make([]float64, size),
		size:   size,
	}
}

// Push appends one sample, evicting the oldest when full
func (rb *RollingBuffer) Push(sample float64) {
	rb.buffer[rb.writePos] = sample
	rb.writePos = (rb.writePos + 1) % rb.size
	if rb.count < rb.size {
		rb.count++
	}
}

// Write appends data in order and returns the number of samples written
func (rb *RollingBuffer) Write(data []float64) int {
	for _, sample := range data {
		rb.Push(sample)
	}
	return len(data)
}

// Snapshot copies the buffered samples, oldest first
func (rb *RollingBuffer) Snapshot() []float64 {
	out := make([]float64, rb.count)
	rb.Peek(out)
	return out
}

// Peek copies up to len(data) of the oldest samples without consuming them
func (rb *RollingBuffer) Peek(data []float64) int {
	start := (rb.writePos - rb.count + rb.size) % rb.size
	n := min(len(data), rb.count)
	for i := range n {
		data[i] = rb.buffer[(start+i)%rb.size]
	}
	return n
}

// Last returns the newest sample, false when empty
func (rb *RollingBuffer) Last() (float64, bool) {
	if rb.count == 0 {
		return 0, false
	}
	return rb.buffer[(rb.writePos-1+rb.size)%rb.size], true
}

// Len returns the number of buffered samples
func (rb *RollingBuffer) Len() int {
	return rb.count
}

// Capacity returns the maximum number of samples held
func (rb *RollingBuffer) Capacity() int {
	return rb.size
}

// Clear empties the buffer
func (rb *RollingBuffer) Clear() {
	rb.writePos = 0
	rb.count = 0
	clear(rb.buffer)
}

// IsFull returns true if buffer is full
func (rb *RollingBuffer) IsFull() bool {
	return rb.count == rb.size
}

// IsEmpty returns true if buffer is empty
func (rb *RollingBuffer) IsEmpty() bool {
	return rb.count == 0
}
