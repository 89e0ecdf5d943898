package cnv

import "fmt"

// carryCapacity bounds the output a converter may hold back between calls.
// The longest single burst is an escaped four-byte sequence (16 units) or an
// escaped surrogate pair (12 bytes).
const carryCapacity = 32

var errCarryOverflow = fmt.Errorf("carry-over capacity %d exceeded", carryCapacity)

// carry is a fixed-capacity FIFO of output produced but not yet delivered.
type carry[T uint16 | byte] struct {
	buf [carryCapacity]T
	n   int
}

func (c *carry[T]) len() int {
	return c.n
}

func (c *carry[T]) push(v ...T) error {
	if c.n+len(v) > carryCapacity {
		return errCarryOverflow
	}
	c.n += copy(c.buf[c.n:], v)
	return nil
}

// drain moves as much as fits into dst and returns the count moved.
func (c *carry[T]) drain(dst []T) int {
	n := copy(dst, c.buf[:c.n])
	copy(c.buf[:], c.buf[n:c.n])
	c.n -= n
	return n
}

func (c *carry[T]) peek() (T, bool) {
	var zero T
	if c.n == 0 {
		return zero, false
	}
	return c.buf[0], true
}

func (c *carry[T]) pop() (T, bool) {
	v, ok := c.peek()
	if ok {
		copy(c.buf[:], c.buf[1:c.n])
		c.n--
	}
	return v, ok
}

func (c *carry[T]) reset() {
	c.n = 0
}
