package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAcceptsFiveAndSixFieldExpressions(t *testing.T) {
	s := New()
	require.NoError(t, s.Add("five", "*/5 * * * *", func() {}))
	require.NoError(t, s.Add("six", "*/10 * * * * *", func() {}))
}

func TestAddRejectsMalformedExpression(t *testing.T) {
	s := New()
	err := s.Add("bad", "not a cron expr", func() {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a cron expr")
}

func TestAddReplacesExistingID(t *testing.T) {
	s := New()
	require.NoError(t, s.Add("job", "* * * * *", func() {}))
	require.NoError(t, s.Add("job", "* * * * *", func() {}))

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Len(t, s.entries, 1)
}

func TestRemoveUnknownIDIsNoop(t *testing.T) {
	s := New()
	s.Remove("ghost")
}

func TestJobFires(t *testing.T) {
	s := New()
	fired := make(chan struct{}, 1)
	// Every second, so the wait below stays short.
	require.NoError(t, s.Add("tick", "* * * * * *", func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	}))

	s.Start()
	defer s.Stop()

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not fire within 3s")
	}
}

func TestRemovedJobStopsFiring(t *testing.T) {
	s := New()
	require.NoError(t, s.Add("tick", "* * * * * *", func() {}))
	s.Remove("tick")

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Empty(t, s.entries)
}
