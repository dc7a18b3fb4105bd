package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/blog/internal/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockInitializer struct {
	mock.Mock
}

func (m *mockInitializer) Init(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func TestRunInitDB(t *testing.T) {
	ctx := context.Background()

	t.Run("text-output-created", func(t *testing.T) {
		initializer := &mockInitializer{}
		initializer.On("Init", ctx).Return(true, nil).Once()

		var out bytes.Buffer
		err := RunInitDB(ctx, initializer, "posts", discardLogger(), &out, "text")

		require.NoError(t, err)
		assert.Contains(t, out.String(), `Created collection "posts"`)
		initializer.AssertExpectations(t)
	})

	t.Run("json-output-existing", func(t *testing.T) {
		initializer := &mockInitializer{}
		initializer.On("Init", ctx).Return(false, nil).Once()

		var out bytes.Buffer
		err := RunInitDB(ctx, initializer, "posts", discardLogger(), &out, "json")

		require.NoError(t, err)
		assert.JSONEq(t, `{"collection":"posts","created":false}`, out.String())
	})

	t.Run("init-error", func(t *testing.T) {
		initializer := &mockInitializer{}
		initializer.On("Init", ctx).Return(false, apperrors.ErrUnavailable).Once()

		err := RunInitDB(ctx, initializer, "posts", discardLogger(), &bytes.Buffer{}, "text")

		assert.ErrorIs(t, err, apperrors.ErrUnavailable)
	})

	t.Run("invalid-format", func(t *testing.T) {
		initializer := &mockInitializer{}

		err := RunInitDB(ctx, initializer, "posts", discardLogger(), &bytes.Buffer{}, "yaml")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid format")
		initializer.AssertNotCalled(t, "Init", mock.Anything)
	})
}

type fakeResolver map[string]string

func (f fakeResolver) Resolve(_ context.Context, name string) (string, error) {
	if value, ok := f[name]; ok {
		return value, nil
	}
	return "", apperrors.Wrapf(apperrors.ErrSecretUnavailable, "resolve %s", name)
}

type fakeReader map[string]string

func (f fakeReader) GetSecret(_ context.Context, path, key string) (string, error) {
	if value, ok := f[path+"#"+key]; ok {
		return value, nil
	}
	return "", apperrors.Wrapf(apperrors.ErrSecretUnavailable, "read %s#%s", path, key)
}

func TestRunCheckSecrets(t *testing.T) {
	ctx := context.Background()
	tokens := fakeResolver{"VAULT_TOKEN": "s.token-value"}
	keys := fakeResolver{"FLASK_SECRET_KEY": "signing-value"}

	t.Run("all-available", func(t *testing.T) {
		reader := fakeReader{
			"MongoDB#Database": "blog",
			"MongoDB#Username": "blog-user",
			"MongoDB#Password": "password-value",
		}
		checks := SecretChecks(tokens, reader, keys, "MongoDB", "FLASK_SECRET_KEY")
		require.Len(t, checks, 5)

		var out bytes.Buffer
		err := RunCheckSecrets(ctx, checks, discardLogger(), &out, "text")

		require.NoError(t, err)
		assert.Contains(t, out.String(), "5 of 5 available")
		for _, value := range []string{"s.token-value", "signing-value", "password-value", "blog-user"} {
			assert.NotContains(t, out.String(), value)
		}
	})

	t.Run("missing-password-json", func(t *testing.T) {
		reader := fakeReader{
			"MongoDB#Database": "blog",
			"MongoDB#Username": "blog-user",
		}
		checks := SecretChecks(tokens, reader, keys, "MongoDB", "FLASK_SECRET_KEY")

		var out bytes.Buffer
		err := RunCheckSecrets(ctx, checks, discardLogger(), &out, "json")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 of 5 secret(s) unavailable")

		var result checkSecretsResult
		require.NoError(t, json.Unmarshal(out.Bytes(), &result))
		assert.Equal(t, 1, result.Unavailable)
		for _, s := range result.Secrets {
			if s.Name == "MongoDB#Password" {
				assert.False(t, s.Available)
				assert.NotEmpty(t, s.Error)
			} else {
				assert.True(t, s.Available, s.Name)
			}
		}
		assert.NotContains(t, out.String(), "s.token-value")
	})

	t.Run("invalid-format", func(t *testing.T) {
		err := RunCheckSecrets(ctx, nil, discardLogger(), &bytes.Buffer{}, "xml")

		require.Error(t, err)
	})
}

// fakeServer blocks in Start until shut down, or fails immediately when startErr is set.
type fakeServer struct {
	startErr error
	stopped  chan struct{}
	shutdown atomic.Int32
}

func newFakeServer(startErr error) *fakeServer {
	return &fakeServer{startErr: startErr, stopped: make(chan struct{})}
}

func (s *fakeServer) Start(ctx context.Context) error {
	if s.startErr != nil {
		return s.startErr
	}
	<-s.stopped
	return nil
}

func (s *fakeServer) Shutdown(ctx context.Context) error {
	if s.shutdown.Add(1) == 1 {
		close(s.stopped)
	}
	return nil
}

func TestServe(t *testing.T) {
	t.Run("shuts-down-on-cancel", func(t *testing.T) {
		api := newFakeServer(nil)
		metrics := newFakeServer(nil)
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() {
			done <- serve(ctx, map[string]Starter{"api": api, "metrics": metrics}, discardLogger(), time.Second)
		}()
		cancel()

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("serve did not return after cancellation")
		}
		assert.Equal(t, int32(1), api.shutdown.Load())
		assert.Equal(t, int32(1), metrics.shutdown.Load())
	})

	t.Run("server-failure-stops-the-rest", func(t *testing.T) {
		startErr := errors.New("address already in use")
		api := newFakeServer(nil)
		metrics := newFakeServer(startErr)

		err := serve(context.Background(), map[string]Starter{"api": api, "metrics": metrics}, discardLogger(), time.Second)

		assert.ErrorIs(t, err, startErr)
		assert.Contains(t, err.Error(), "metrics server error")
		assert.Equal(t, int32(1), api.shutdown.Load())
	})
}

type fakeShutdowner struct {
	err   error
	calls int
}

func (f *fakeShutdowner) Shutdown(ctx context.Context) error {
	f.calls++
	return f.err
}

func TestCloseContainer(t *testing.T) {
	t.Run("logs-shutdown-error", func(t *testing.T) {
		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, nil))
		container := &fakeShutdowner{err: errors.New("database pool close: boom")}

		CloseContainer(container, logger)

		assert.Equal(t, 1, container.calls)
		assert.Contains(t, logs.String(), "failed to shutdown container")
		assert.Contains(t, logs.String(), "database pool close: boom")
	})

	t.Run("clean-shutdown-is-silent", func(t *testing.T) {
		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, nil))
		container := &fakeShutdowner{}

		CloseContainer(container, logger)

		assert.Equal(t, 1, container.calls)
		assert.Empty(t, logs.String())
	})
}
