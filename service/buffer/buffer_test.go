package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixed_FIFO(t *testing.T) {
	b := Fixed(3)
	assert.True(t, b.IsEmpty())
	b.Put(1)
	b.Put(2)
	b.Put(3)
	assert.False(t, b.IsEmpty())

	v, ok := b.Take()
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	v, _ = b.Take()
	assert.Equal(t, 2, v)
	v, _ = b.Take()
	assert.Equal(t, 3, v)
	_, ok = b.Take()
	assert.False(t, ok)
}

func TestFixed_OverflowPanics(t *testing.T) {
	b := Fixed(1)
	b.Put(1)
	assert.Panics(t, func() { b.Put(2) })
}

func TestDropping_DropsNewest(t *testing.T) {
	b := Dropping(2)
	b.Put(1)
	b.Put(2)
	b.Put(3)
	assert.Equal(t, []interface{}{1, 2}, b.Flush())
}

func TestSliding_DropsOldest(t *testing.T) {
	b := Sliding(2)
	b.Put(1)
	b.Put(2)
	b.Put(3)
	assert.Equal(t, []interface{}{2, 3}, b.Flush())
}

func TestExpanding_GrowsPastInitialCapacity(t *testing.T) {
	b := Expanding(2)
	for i := 0; i < 10; i++ {
		b.Put(i)
	}
	values := b.Flush()
	assert.Len(t, values, 10)
	assert.Equal(t, 0, values[0])
	assert.Equal(t, 9, values[9])
	assert.True(t, b.IsEmpty())
}

func TestNone_AlwaysEmpty(t *testing.T) {
	b := None()
	b.Put(1)
	assert.True(t, b.IsEmpty())
	_, ok := b.Take()
	assert.False(t, ok)
	assert.Empty(t, b.Flush())
}

func TestExpanding_WrapAroundKeepsOrder(t *testing.T) {
	b := Expanding(4)
	b.Put(1)
	b.Put(2)
	b.Take()
	b.Put(3)
	b.Put(4)
	b.Put(5)
	// head has wrapped; growth must preserve FIFO order
	b.Put(6)
	assert.Equal(t, []interface{}{2, 3, 4, 5, 6}, b.Flush())
}
