package flow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sdrkit/dvbtx/flow"
)

func TestBufferCursors(t *testing.T) {
	b := flow.NewBuffer[int](flow.New(), "cursors", 4)
	assert.Equal(t, 0, b.Readable())
	assert.Equal(t, 4, b.Writable())

	w := b.Wr()
	w[0], w[1], w[2] = 1, 2, 3
	b.Written(3)
	assert.Equal(t, 3, b.Readable())
	assert.Equal(t, 1, b.Writable())
	assert.Equal(t, []int{1, 2, 3}, b.Rd())

	b.Read(2)
	assert.Equal(t, 1, b.Readable())
	assert.Equal(t, 3, b.Writable())
	assert.Equal(t, []int{3}, b.Rd())
	assert.LessOrEqual(t, b.Readable()+b.Writable(), b.Cap())
}

func TestBufferContiguity(t *testing.T) {
	b := flow.NewBuffer[int](flow.New(), "contiguity", 4)
	w := b.Wr()
	w[0], w[1], w[2], w[3] = 10, 11, 12, 13
	b.Written(4)
	b.Read(3)

	// the free region must be handed out as one contiguous slice even
	// though the survivor sat at the end of storage
	w = b.Wr()
	assert.Len(t, w, 3)
	w[0], w[1], w[2] = 14, 15, 16
	b.Written(3)
	assert.Equal(t, []int{13, 14, 15, 16}, b.Rd())
}

func TestBufferMultiplicity(t *testing.T) {
	b := flow.NewBuffer[int](flow.New(), "mult", 4, flow.WithMultiplicity(3))
	assert.Equal(t, 12, b.Cap())
	assert.Equal(t, 12, b.Writable())
	assert.Equal(t, 3, b.Multiplicity())
}

func TestBufferOverrun(t *testing.T) {
	b := flow.NewBuffer[int](flow.New(), "overrun", 2)
	assert.Panics(t, func() { b.Read(1) })
	assert.Panics(t, func() { b.Written(3) })
	assert.NotPanics(t, func() { b.Written(2) })
	assert.Panics(t, func() { b.Written(1) })
}

func TestBufferInvalidCapacity(t *testing.T) {
	assert.Panics(t, func() { flow.NewBuffer[int](flow.New(), "bad", 0) })
	assert.Panics(t, func() {
		flow.NewBuffer[int](flow.New(), "bad", 4, flow.WithMultiplicity(0))
	})
}
