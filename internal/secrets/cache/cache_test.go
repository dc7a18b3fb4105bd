package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	apperrors "github.com/allisson/blog/internal/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// countingReader returns "<path>/<key>#<n>" where n counts reads.
type countingReader struct {
	calls   atomic.Int32
	err     error
	release chan struct{}
}

func (r *countingReader) GetSecret(ctx context.Context, path, key string) (string, error) {
	n := r.calls.Add(1)
	if r.release != nil {
		<-r.release
	}
	if r.err != nil {
		return "", r.err
	}
	return path + "/" + key + "#" + string(rune('0'+n)), nil
}

// blockingReader waits for release or for its context to end.
type blockingReader struct {
	calls   atomic.Int32
	release chan struct{}
}

func (r *blockingReader) GetSecret(ctx context.Context, path, key string) (string, error) {
	r.calls.Add(1)
	select {
	case <-r.release:
		return path + "/" + key, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore(next Reader, ttl time.Duration) (*Store, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := newStore(next, ttl)
	s.now = clock.Now
	return s, clock
}

func TestNew_DisabledReturnsNext(t *testing.T) {
	next := &countingReader{}

	assert.Same(t, Reader(next), New(next, 0))
	assert.IsType(t, &Store{}, New(next, time.Minute))
}

func TestStore_GetSecret(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_HitWithinTTL", func(t *testing.T) {
		next := &countingReader{}
		s, clock := newTestStore(next, time.Minute)

		first, err := s.GetSecret(ctx, "MongoDB", "Password")
		require.NoError(t, err)

		clock.Advance(59 * time.Second)
		second, err := s.GetSecret(ctx, "MongoDB", "Password")
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.EqualValues(t, 1, next.calls.Load())
	})

	t.Run("Success_ExpiresAfterTTL", func(t *testing.T) {
		next := &countingReader{}
		s, clock := newTestStore(next, time.Minute)

		first, err := s.GetSecret(ctx, "MongoDB", "Password")
		require.NoError(t, err)

		clock.Advance(time.Minute)
		second, err := s.GetSecret(ctx, "MongoDB", "Password")
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
		assert.EqualValues(t, 2, next.calls.Load())
	})

	t.Run("Success_KeysAreIndependent", func(t *testing.T) {
		next := &countingReader{}
		s, _ := newTestStore(next, time.Minute)

		_, err := s.GetSecret(ctx, "MongoDB", "Username")
		require.NoError(t, err)
		_, err = s.GetSecret(ctx, "MongoDB", "Password")
		require.NoError(t, err)

		assert.EqualValues(t, 2, next.calls.Load())
	})

	t.Run("Error_FailuresAreNotCached", func(t *testing.T) {
		next := &countingReader{err: apperrors.ErrUnavailable}
		s, _ := newTestStore(next, time.Minute)

		_, err := s.GetSecret(ctx, "MongoDB", "Password")
		assert.ErrorIs(t, err, apperrors.ErrUnavailable)
		_, err = s.GetSecret(ctx, "MongoDB", "Password")
		assert.ErrorIs(t, err, apperrors.ErrUnavailable)

		assert.EqualValues(t, 2, next.calls.Load())
	})

	t.Run("Success_PurgeForcesReload", func(t *testing.T) {
		next := &countingReader{}
		s, _ := newTestStore(next, time.Minute)

		_, err := s.GetSecret(ctx, "flask", "FLASK_SECRET_KEY")
		require.NoError(t, err)
		s.Purge()
		_, err = s.GetSecret(ctx, "flask", "FLASK_SECRET_KEY")
		require.NoError(t, err)

		assert.EqualValues(t, 2, next.calls.Load())
	})

	t.Run("Success_ConcurrentMissesShareOneRead", func(t *testing.T) {
		next := &countingReader{release: make(chan struct{})}
		s, _ := newTestStore(next, time.Minute)

		const callers = 8
		var wg sync.WaitGroup
		results := make([]string, callers)
		errs := make([]error, callers)

		for i := range callers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i], errs[i] = s.GetSecret(ctx, "MongoDB", "Password")
			}()
		}

		require.Eventually(t, func() bool { return next.calls.Load() == 1 }, time.Second, time.Millisecond)
		// Give the remaining callers time to join the in-flight read.
		time.Sleep(20 * time.Millisecond)
		close(next.release)
		wg.Wait()

		for i := range callers {
			require.NoError(t, errs[i])
			assert.Equal(t, results[0], results[i])
		}
		assert.EqualValues(t, 1, next.calls.Load())
	})

	t.Run("Success_CancelledCallerDoesNotFailSharedRead", func(t *testing.T) {
		next := &blockingReader{release: make(chan struct{})}
		s, _ := newTestStore(next, time.Minute)

		leaderCtx, cancel := context.WithCancel(ctx)
		leaderErr := make(chan error, 1)
		go func() {
			_, err := s.GetSecret(leaderCtx, "MongoDB", "Password")
			leaderErr <- err
		}()
		require.Eventually(t, func() bool { return next.calls.Load() == 1 }, time.Second, time.Millisecond)

		type result struct {
			value string
			err   error
		}
		follower := make(chan result, 1)
		go func() {
			value, err := s.GetSecret(ctx, "MongoDB", "Password")
			follower <- result{value: value, err: err}
		}()
		// Give the follower time to join the in-flight read.
		time.Sleep(20 * time.Millisecond)

		cancel()
		select {
		case err := <-leaderErr:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("cancelled caller kept waiting on the shared read")
		}

		close(next.release)
		select {
		case res := <-follower:
			require.NoError(t, res.err)
			assert.Equal(t, "MongoDB/Password", res.value)
		case <-time.After(time.Second):
			t.Fatal("follower did not receive the shared read")
		}
		assert.EqualValues(t, 1, next.calls.Load())

		value, err := s.GetSecret(ctx, "MongoDB", "Password")
		require.NoError(t, err)
		assert.Equal(t, "MongoDB/Password", value)
		assert.EqualValues(t, 1, next.calls.Load())
	})
}
