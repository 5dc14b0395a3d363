package zond

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCountThresholdRejectsNonPositive(t *testing.T) {
	for _, max := range []int{0, -1, -100} {
		policy, err := CountThreshold(max)
		require.ErrorIs(t, err, ErrNonPositiveThreshold)
		require.Nil(t, policy)
	}
}

func TestDebouncedRejectsNonPositive(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Millisecond, -time.Hour} {
		policy, err := Debounced(interval)
		require.ErrorIs(t, err, ErrNonPositiveInterval)
		require.Nil(t, policy)
	}
}

func TestOnCloseOnlyNeverFires(t *testing.T) {
	policy := OnCloseOnly().rearm()
	for i := 0; i < 1000; i++ {
		if policy.shouldFlush() {
			t.Fatalf("fired on event %d", i)
		}
	}
}

func TestCountThresholdCadence(t *testing.T) {
	template, err := CountThreshold(3)
	require.NoError(t, err)

	policy := template.rearm()
	want := []bool{false, false, true, false, false, true, false}
	for i, expect := range want {
		if got := policy.shouldFlush(); got != expect {
			t.Fatalf("event %d: shouldFlush = %v, want %v", i, got, expect)
		}
	}
}

func TestCountThresholdOfOneFiresEveryTime(t *testing.T) {
	template, err := CountThreshold(1)
	require.NoError(t, err)

	policy := template.rearm()
	for i := 0; i < 5; i++ {
		if !policy.shouldFlush() {
			t.Fatalf("event %d did not fire", i)
		}
	}
}

func TestRearmResetsProgress(t *testing.T) {
	template, err := CountThreshold(3)
	require.NoError(t, err)

	first := template.rearm()
	first.shouldFlush()
	first.shouldFlush()

	second := first.rearm()
	if second.shouldFlush() {
		t.Fatal("rearmed policy inherited progress")
	}
	if !first.shouldFlush() {
		t.Fatal("original policy lost its progress")
	}
}

func TestDebouncedFiresAfterStrictInterval(t *testing.T) {
	template, err := Debounced(time.Second)
	require.NoError(t, err)

	base := time.Now()
	clock := base
	template.(*debouncePolicy).now = func() time.Time { return clock }
	policy := template.rearm().(*debouncePolicy)

	clock = base.Add(time.Second)
	if policy.shouldFlush() {
		t.Fatal("fired exactly on the boundary")
	}

	clock = base.Add(time.Second + time.Nanosecond)
	if !policy.shouldFlush() {
		t.Fatal("did not fire past the boundary")
	}

	clock = clock.Add(time.Second)
	if policy.shouldFlush() {
		t.Fatal("fired inside the fresh window")
	}
	clock = clock.Add(time.Nanosecond)
	if !policy.shouldFlush() {
		t.Fatal("did not fire past the fresh window")
	}
}
