package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestDisabledTask(t *testing.T) {
	task := New("advance", 0)
	assert.False(t, task.Enabled())
	assert.Nil(t, task.Start())
	assert.False(t, task.Running())
}

func TestTaskTicks(t *testing.T) {
	task := New("advance", time.Millisecond)
	cmd := task.Start()
	require.NotNil(t, cmd)
	assert.True(t, task.Running())

	msg := cmd()
	tick, ok := msg.(TickMsg)
	require.True(t, ok)
	assert.Equal(t, "advance", tick.Name)

	fired, next := task.Handle(msg)
	assert.True(t, fired)
	assert.NotNil(t, next)
}

func TestStoppedTaskDropsInFlightTick(t *testing.T) {
	task := New("advance", time.Millisecond)
	msg := task.Start()()
	task.Stop()

	fired, next := task.Handle(msg)
	assert.False(t, fired)
	assert.Nil(t, next)
}

func TestRestartDropsOldGeneration(t *testing.T) {
	task := New("blink", time.Millisecond)
	old := task.Start()()
	fresh := task.Start()()

	fired, _ := task.Handle(old)
	assert.False(t, fired)
	fired, _ = task.Handle(fresh)
	assert.True(t, fired)
}

func TestTickMatchesGeneration(t *testing.T) {
	task := New("advance", time.Hour)
	stale := task.Tick(time.Now())
	task.Start()

	fired, _ := task.Handle(stale)
	assert.False(t, fired)
	fired, next := task.Handle(task.Tick(time.Now()))
	assert.True(t, fired)
	assert.NotNil(t, next)
}

func TestTaskIgnoresOtherMessages(t *testing.T) {
	task := New("advance", time.Millisecond)
	task.Start()
	fired, _ := task.Handle(TickMsg{Name: "blink", gen: 1})
	assert.False(t, fired)
	fired, _ = task.Handle("not a tick")
	assert.False(t, fired)
}

func TestGroup(t *testing.T) {
	advance := New("advance", time.Millisecond)
	blink := New("blink", time.Millisecond)
	g := NewGroup(advance, nil, blink, New("off", 0))

	require.NotNil(t, g.Start())
	assert.True(t, advance.Running())
	assert.True(t, blink.Running())

	msg := blink.tick()()
	task, next := g.Handle(msg)
	assert.Same(t, blink, task)
	assert.NotNil(t, next)

	g.Stop()
	assert.False(t, advance.Running())
	assert.False(t, blink.Running())
	task, _ = g.Handle(msg)
	assert.Nil(t, task)
}

func TestRunStopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	task := New("advance", time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	done := make(chan struct{})
	go func() {
		defer close(done)
		task.Run(ctx, func(time.Time) {
			if calls.Add(1) == 3 {
				cancel()
			}
		})
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.GreaterOrEqual(t, calls.Load(), int32(3))
}
