package messaging_test

import (
	"context"
	"errors"
	"testing"

	"github.com/noonesark/splash/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRunnable struct {
	started     bool
	shutdown    bool
	startErr    error
	shutdownErr error
}

func (m *mockRunnable) Start(_ context.Context) error {
	if m.startErr != nil {
		return m.startErr
	}

	m.started = true

	return nil
}

func (m *mockRunnable) Shutdown() error {
	m.shutdown = true

	return m.shutdownErr
}

func TestConsumerGroupStart(t *testing.T) {
	t.Run("starts all consumers", func(t *testing.T) {
		sub := newMockSubscriber()
		group := messaging.NewConsumerGroup(sub, zap.NewNop())
		first := &mockRunnable{}
		second := &mockRunnable{}

		group.Add(first)
		group.Add(second)

		require.NoError(t, group.Start(context.Background()))
		assert.True(t, first.started)
		assert.True(t, second.started)
	})

	t.Run("rolls back started consumers on failure", func(t *testing.T) {
		sub := newMockSubscriber()
		group := messaging.NewConsumerGroup(sub, zap.NewNop())
		first := &mockRunnable{}
		second := &mockRunnable{startErr: errors.New("start error")}

		group.Add(first)
		group.Add(second)

		require.Error(t, group.Start(context.Background()))
		assert.True(t, first.started)
		assert.True(t, first.shutdown)
		assert.False(t, second.started)
	})
}

func TestConsumerGroupShutdown(t *testing.T) {
	t.Run("shuts down consumers and closes the subscriber", func(t *testing.T) {
		sub := newMockSubscriber()
		group := messaging.NewConsumerGroup(sub, zap.NewNop())
		first := &mockRunnable{}
		second := &mockRunnable{}

		group.Add(first)
		group.Add(second)

		require.NoError(t, group.Start(context.Background()))
		require.NoError(t, group.Shutdown())
		assert.True(t, first.shutdown)
		assert.True(t, second.shutdown)
		assert.True(t, sub.closed)
	})

	t.Run("first shutdown error wins", func(t *testing.T) {
		sub := newMockSubscriber()
		group := messaging.NewConsumerGroup(sub, zap.NewNop())
		first := &mockRunnable{shutdownErr: errors.New("first error")}
		second := &mockRunnable{shutdownErr: errors.New("second error")}

		group.Add(first)
		group.Add(second)

		err := group.Shutdown()

		require.Error(t, err)
		assert.Equal(t, "first error", err.Error())
		assert.True(t, second.shutdown)
	})
}
