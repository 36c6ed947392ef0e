package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errConflict = errors.New("version mismatch")

func TestDo_RetriesImmediatelyByDefault(t *testing.T) {
	t.Parallel()
	attempts := 0
	start := time.Now()

	err := Do(context.Background(), func(context.Context) error {
		attempts++
		if attempts < 4 {
			return errConflict
		}
		return nil
	}, Attempts(6))

	require.NoError(t, err)
	assert.Equal(t, 4, attempts)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestDo_ReturnsLastErrorWhenAttemptsRunOut(t *testing.T) {
	t.Parallel()
	attempts := 0

	err := Do(context.Background(), func(context.Context) error {
		attempts++
		return errConflict
	}, Attempts(3))

	assert.Same(t, errConflict, err)
	assert.Equal(t, 3, attempts)
}

func TestDo_FatalStopsImmediately(t *testing.T) {
	t.Parallel()
	attempts := 0
	cause := errors.New("bucket missing")

	err := Do(context.Background(), func(context.Context) error {
		attempts++
		return Fatal(cause)
	})

	assert.Same(t, cause, err, "the marker is stripped")
	assert.False(t, IsFatal(err))
	assert.Equal(t, 1, attempts)
}

func TestDo_ContextCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, b := range []Backoff{{}, {Base: 10 * time.Millisecond}} {
		attempts := 0
		err := Do(ctx, func(context.Context) error {
			attempts++
			return errConflict
		}, WithBackoff(b))

		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, attempts)
	}
}

func TestDo_WaitsBetweenAttempts(t *testing.T) {
	t.Parallel()
	var stamps []time.Time

	_ = Do(context.Background(), func(context.Context) error {
		stamps = append(stamps, time.Now())
		return errConflict
	}, Attempts(3), WithBackoff(Backoff{Base: 20 * time.Millisecond, Max: time.Second}))

	require.Len(t, stamps, 3)
	assert.GreaterOrEqual(t, stamps[1].Sub(stamps[0]), 20*time.Millisecond)
	assert.GreaterOrEqual(t, stamps[2].Sub(stamps[1]), 40*time.Millisecond)
}

func TestFatal(t *testing.T) {
	t.Parallel()
	assert.Nil(t, Fatal(nil))

	cause := errors.New("boom")
	err := Fatal(cause)
	assert.Equal(t, "boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.False(t, IsFatal(cause))
}

func TestDelay(t *testing.T) {
	t.Parallel()
	base := 5 * time.Second
	maxDelay := 5 * time.Minute

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 5 * time.Second},
		{1, 10 * time.Second},
		{2, 20 * time.Second},
		{5, 160 * time.Second},
		{6, 5 * time.Minute},
		{50, 5 * time.Minute},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Delay(tt.attempt, base, maxDelay), "attempt %d", tt.attempt)
	}

	assert.Equal(t, time.Duration(0), Delay(3, 0, maxDelay))
	assert.Equal(t, time.Minute, Delay(0, 2*time.Minute, time.Minute))
	assert.Equal(t, 8*time.Second, Backoff{Base: time.Second}.Delay(3), "no cap without Max")
}
