package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskTransitionAllowed_Executor(t *testing.T) {
	assert.True(t, TaskTransitionAllowed(TaskNew, TaskInProgress, false))
	assert.True(t, TaskTransitionAllowed(TaskInProgress, TaskWaiting, false))
	assert.True(t, TaskTransitionAllowed(TaskWaiting, TaskInProgress, false))
	assert.True(t, TaskTransitionAllowed(TaskInProgress, TaskReview, false))
	assert.True(t, TaskTransitionAllowed(TaskReview, TaskCompleted, false))

	// executor cannot cancel, freeze or skip ahead
	assert.False(t, TaskTransitionAllowed(TaskNew, TaskCancelled, false))
	assert.False(t, TaskTransitionAllowed(TaskInProgress, TaskFrozen, false))
	assert.False(t, TaskTransitionAllowed(TaskNew, TaskCompleted, false))
}

func TestTaskTransitionAllowed_Creator(t *testing.T) {
	for _, from := range []TaskStatus{TaskNew, TaskInProgress, TaskWaiting, TaskReview} {
		assert.True(t, TaskTransitionAllowed(from, TaskCancelled, true), "cancel from %s", from)
		assert.True(t, TaskTransitionAllowed(from, TaskFrozen, true), "freeze from %s", from)
	}
	assert.True(t, TaskTransitionAllowed(TaskFrozen, TaskInProgress, true))
	assert.True(t, TaskTransitionAllowed(TaskFrozen, TaskCancelled, true))

	// creator does not drive forward progress
	assert.False(t, TaskTransitionAllowed(TaskNew, TaskInProgress, true))
	assert.False(t, TaskTransitionAllowed(TaskReview, TaskCompleted, true))
}

func TestTaskTransitionAllowed_TerminalStates(t *testing.T) {
	all := []TaskStatus{TaskNew, TaskInProgress, TaskWaiting, TaskReview, TaskCompleted, TaskCancelled, TaskFrozen}

	for _, from := range []TaskStatus{TaskCompleted, TaskCancelled} {
		assert.True(t, from.Terminal())
		for _, to := range all {
			assert.False(t, TaskTransitionAllowed(from, to, false))
			assert.False(t, TaskTransitionAllowed(from, to, true))
		}
	}
}
