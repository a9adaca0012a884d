package execution

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutine_YieldsAndResumes(t *testing.T) {
	r := NewRoutine(func(y *Yield) (interface{}, error) {
		v, err := y.Do("first")
		require.NoError(t, err)
		return v.(string) + "!", nil
	})

	step, err := r.Next(nil)
	require.NoError(t, err)
	assert.False(t, step.Done)
	assert.Equal(t, "first", step.Value)

	step, err = r.Next("answer")
	require.NoError(t, err)
	assert.True(t, step.Done)
	assert.Equal(t, "answer!", step.Value)
}

func TestRoutine_ThrowSurfacesAtYield(t *testing.T) {
	r := NewRoutine(func(y *Yield) (interface{}, error) {
		_, err := y.Do("eff")
		if err != nil {
			return "caught", nil
		}
		return "missed", nil
	})
	_, err := r.Next(nil)
	require.NoError(t, err)
	step, err := r.Throw(errors.New("boom"))
	require.NoError(t, err)
	assert.True(t, step.Done)
	assert.Equal(t, "caught", step.Value)
}

func TestRoutine_UncaughtErrorFinishesAbnormally(t *testing.T) {
	boom := errors.New("boom")
	r := NewRoutine(func(y *Yield) (interface{}, error) {
		_, err := y.Do("eff")
		return nil, err
	})
	_, err := r.Next(nil)
	require.NoError(t, err)
	_, err = r.Throw(boom)
	assert.Equal(t, boom, err)
}

// TestRoutine_ReturnRunsDeferredCleanup verifies that Return unwinds the
// body, deferred cleanup may still yield, and the terminal value is the
// injected one.
func TestRoutine_ReturnRunsDeferredCleanup(t *testing.T) {
	r := NewRoutine(func(y *Yield) (interface{}, error) {
		defer func() {
			y.Do("cleanup")
		}()
		_, err := y.Do("main")
		return "normal", err
	})
	step, err := r.Next(nil)
	require.NoError(t, err)
	assert.Equal(t, "main", step.Value)

	step, err = r.Return("terminal")
	require.NoError(t, err)
	assert.False(t, step.Done)
	assert.Equal(t, "cleanup", step.Value)

	step, err = r.Next(nil)
	require.NoError(t, err)
	assert.True(t, step.Done)
	assert.Equal(t, "terminal", step.Value)
}

func TestRoutine_PanicBecomesError(t *testing.T) {
	r := NewRoutine(func(y *Yield) (interface{}, error) {
		panic("kaboom")
	})
	_, err := r.Next(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
}

func TestResultIterator_FutureYieldedOnce(t *testing.T) {
	f := NewFuture()
	it := &resultIterator{result: f}
	step, err := it.Next(nil)
	require.NoError(t, err)
	assert.False(t, step.Done)
	assert.Equal(t, f, step.Value)

	step, err = it.Next("resolved")
	require.NoError(t, err)
	assert.True(t, step.Done)
	assert.Equal(t, "resolved", step.Value)
}

func TestResultIterator_PlainValueTerminates(t *testing.T) {
	it := &resultIterator{result: 7}
	step, err := it.Next(nil)
	require.NoError(t, err)
	assert.True(t, step.Done)
	assert.Equal(t, 7, step.Value)
}

func TestCreateTaskIterator_PanicToErrorIterator(t *testing.T) {
	it := createTaskIterator(func() { panic("sync failure") }, nil)
	_, err := it.Next(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sync failure")
}

func TestInvoke_ArgumentConversion(t *testing.T) {
	type input struct {
		Name string
	}
	result, err := invoke(func(in input) string { return in.Name }, []interface{}{
		map[string]interface{}{"Name": "ann"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ann", result)
}

func TestInvoke_Variadic(t *testing.T) {
	result, err := invoke(func(parts ...string) int { return len(parts) }, []interface{}{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, 3, result)
}

func TestInvoke_ArityMismatch(t *testing.T) {
	_, err := invoke(func(a, b int) int { return a + b }, []interface{}{1})
	assert.Error(t, err)
}
