package fanout

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEach_KeepsInputOrder(t *testing.T) {
	items := []int{30, 10, 20}

	out, err := Each(items, func(i int, ms int) (int, error) {
		time.Sleep(time.Duration(ms) * time.Millisecond)
		return i * 100, nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int{0, 100, 200}, out)
}

func TestEach_EmptyInput(t *testing.T) {
	out, err := Each([]string{}, func(int, string) (string, error) {
		t.Fatal("must not be called")
		return "", nil
	})

	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestEach_FirstErrorWinsAndSiblingsFinish(t *testing.T) {
	boom := errors.New("boom")
	var finished atomic.Int32

	_, err := Each([]int{0, 1, 2}, func(i int, _ int) (int, error) {
		if i == 0 {
			return 0, boom
		}
		time.Sleep(10 * time.Millisecond)
		finished.Add(1)
		return i, nil
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(2), finished.Load())
}

func TestPair(t *testing.T) {
	a, b, err := Pair(
		func() (string, error) { return "left", nil },
		func() (int, error) { return 42, nil },
	)
	require.NoError(t, err)
	assert.Equal(t, "left", a)
	assert.Equal(t, 42, b)

	boom := errors.New("boom")
	a, b, err = Pair(
		func() (string, error) { return "left", nil },
		func() (int, error) { return 0, boom },
	)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, a)
	assert.Zero(t, b)
}
