package execution

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuture_ResolveOnce(t *testing.T) {
	f := NewFuture()
	f.Resolve(1)
	f.Resolve(2)
	f.Reject(errors.New("late"))
	result, err := f.Wait(time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1, result)
}

func TestFuture_SubscribeBeforeCompletion(t *testing.T) {
	f := NewFuture()
	var got interface{}
	ok := f.subscribe(func(v interface{}, err error) { got = v })
	assert.True(t, ok)
	f.Resolve("x")
	assert.Equal(t, "x", got)
}

func TestFuture_SubscribeAfterCompletionFails(t *testing.T) {
	f := NewFuture()
	f.Resolve("x")
	ok := f.subscribe(func(interface{}, error) {})
	assert.False(t, ok)
	result, err, done := f.poll()
	assert.True(t, done)
	assert.NoError(t, err)
	assert.Equal(t, "x", result)
}

func TestFuture_CancelHook(t *testing.T) {
	f := NewFuture()
	cancelled := 0
	f.OnCancel(func() { cancelled++ })
	f.Cancel()
	f.Cancel()
	assert.Equal(t, 1, cancelled)
}

func TestFuture_CancelAfterCompletionIsNoop(t *testing.T) {
	f := NewFuture()
	cancelled := false
	f.OnCancel(func() { cancelled = true })
	f.Resolve("x")
	f.Cancel()
	assert.False(t, cancelled)
}

func TestFuture_WaitTimeout(t *testing.T) {
	f := NewFuture()
	_, err := f.Wait(10 * time.Millisecond)
	assert.Error(t, err)
}

func TestGo(t *testing.T) {
	f := Go(func() (interface{}, error) { return "bg", nil })
	result, err := f.Wait(time.Second)
	require.NoError(t, err)
	assert.Equal(t, "bg", result)
}
