package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingChecker struct {
	calls int64
	ran   chan struct{}
}

func newCountingChecker() *countingChecker {
	return &countingChecker{ran: make(chan struct{}, 16)}
}

func (c *countingChecker) CheckAllBudgets() (int, error) {
	atomic.AddInt64(&c.calls, 1)
	c.ran <- struct{}{}
	return 0, nil
}

func waitForRun(t *testing.T, checker *countingChecker) {
	t.Helper()
	select {
	case <-checker.ran:
	case <-time.After(2 * time.Second):
		t.Fatal("проверка не запустилась вовремя")
	}
}

func TestStartRunsImmediateCheck(t *testing.T) {
	checker := newCountingChecker()
	s := New(checker)
	defer s.Stop()

	s.Start()
	waitForRun(t, checker)

	assert.Equal(t, int64(1), atomic.LoadInt64(&checker.calls))
}

func TestDoubleStartIsNoop(t *testing.T) {
	checker := newCountingChecker()
	s := New(checker)
	defer s.Stop()

	s.Start()
	waitForRun(t, checker)

	// Повторный запуск не создает второй немедленной проверки
	s.Start()

	select {
	case <-checker.ran:
		t.Fatal("повторный Start запустил лишнюю проверку")
	case <-time.After(100 * time.Millisecond):
	}
	assert.Equal(t, int64(1), atomic.LoadInt64(&checker.calls))
}

func TestStatusReflectsLifecycle(t *testing.T) {
	checker := newCountingChecker()
	s := New(checker)

	status := s.GetStatus()
	assert.False(t, status.IsRunning)
	assert.Equal(t, "не запланирован", status.NextRun)

	s.Start()
	waitForRun(t, checker)

	status = s.GetStatus()
	require.True(t, status.IsRunning)
	require.NotEqual(t, "не запланирован", status.NextRun)
	if status.NextRun != "каждый час" {
		next, err := time.Parse(time.RFC3339, status.NextRun)
		require.NoError(t, err)
		assert.True(t, next.After(time.Now()), "следующий запуск должен быть в будущем")
	}

	s.Stop()
	status = s.GetStatus()
	assert.False(t, status.IsRunning)
	assert.Equal(t, "не запланирован", status.NextRun)
}

func TestDoubleStopIsNoop(t *testing.T) {
	checker := newCountingChecker()
	s := New(checker)

	s.Start()
	waitForRun(t, checker)

	s.Stop()
	s.Stop()

	status := s.GetStatus()
	assert.False(t, status.IsRunning)
}

func TestRestartAfterStop(t *testing.T) {
	checker := newCountingChecker()
	s := New(checker)
	defer s.Stop()

	s.Start()
	waitForRun(t, checker)
	s.Stop()

	s.Start()
	waitForRun(t, checker)

	assert.Equal(t, int64(2), atomic.LoadInt64(&checker.calls))
}
