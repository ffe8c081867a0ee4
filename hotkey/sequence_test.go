package hotkey

import (
	"errors"
	"testing"
	"time"

	"keychord/key"
)

func TestSequencePrintThenShiftA(t *testing.T) {
	seq := mustSeq(t, 0,
		mustCombo(t, key.PrintScreen),
		mustCombo(t, key.Shift, key.A))
	s := newScript(t, seq)

	s.press(key.PrintScreen)
	s.expect(0)
	if step, _ := seq.Progress(); step != 1 {
		t.Fatalf("step after Print = %d, want 1", step)
	}

	// The wrong chord does not complete step 2 and does not reset progress.
	s.press(key.LeftShift, key.B)
	s.expect(0)
	if step, _ := seq.Progress(); step != 1 {
		t.Fatalf("step after Shift+B = %d, want 1", step)
	}

	s.press(key.PrintScreen)
	s.press(key.LeftShift, key.A)
	s.expect(1)
	if step, since := seq.Progress(); step != 0 || !since.IsZero() {
		t.Errorf("after match Progress() = %d, %v; want 0, zero", step, since)
	}
}

func TestSequenceRepeats(t *testing.T) {
	s := newScript(t, mustSeq(t, 0,
		mustCombo(t, key.PrintScreen),
		mustCombo(t, key.Shift, key.A)))

	for i := 1; i <= 3; i++ {
		s.press(key.PrintScreen)
		s.press(key.LeftShift, key.A)
		s.expect(i)
	}
}

func TestSequenceLaterStepIgnoredWhileEarlierActive(t *testing.T) {
	seq := mustSeq(t, 0,
		mustCombo(t, key.PrintScreen),
		mustCombo(t, key.Shift, key.A))
	s := newScript(t, seq)

	s.press(key.LeftShift, key.A)
	s.expect(0)
	if step, _ := seq.Progress(); step != 0 {
		t.Fatalf("step = %d, want 0", step)
	}
}

func TestSequenceWithAlternationAndTimeout(t *testing.T) {
	seq := mustSeq(t, 200*time.Millisecond,
		mustCombo(t, key.PrintScreen),
		mustAlt(t,
			mustCombo(t, key.Shift, key.A),
			mustCombo(t, key.Shift, key.B)))
	s := newScript(t, seq)

	s.wait(20 * time.Millisecond)
	s.press(key.PrintScreen)
	s.expect(0)
	s.wait(20 * time.Millisecond)
	s.press(key.LeftShift, key.B)
	s.expect(1)

	s.wait(20 * time.Millisecond)
	s.press(key.PrintScreen)
	s.wait(20 * time.Millisecond)
	s.press(key.LeftShift, key.A)
	s.expect(2)

	// Waiting too long between steps resets progress; completing step 2
	// afterwards does not count as step 1.
	s.press(key.PrintScreen)
	s.wait(400 * time.Millisecond)
	s.press(key.LeftShift, key.A)
	s.expect(2)
	if step, _ := seq.Progress(); step != 0 {
		t.Fatalf("step after timeout = %d, want 0", step)
	}

	s.press(key.PrintScreen)
	s.press(key.LeftShift, key.A)
	s.expect(3)
}

func TestSequenceTimeoutPerGap(t *testing.T) {
	s := newScript(t, mustSeq(t, 100*time.Millisecond,
		mustCombo(t, key.A),
		mustCombo(t, key.B),
		mustCombo(t, key.C)))

	// Whole sequence spans 180ms, but each gap stays under 100ms.
	s.press(key.A)
	s.wait(90 * time.Millisecond)
	s.press(key.B)
	s.wait(90 * time.Millisecond)
	s.press(key.C)
	s.expect(1)
}

func TestSequenceTimeoutBoundary(t *testing.T) {
	seq := mustSeq(t, 100*time.Millisecond, mustCombo(t, key.A), mustCombo(t, key.B))

	seq.Feed(Event{Key: key.A, Down: true, Time: epoch})
	seq.Feed(Event{Key: key.A, Down: false, Time: epoch.Add(10 * time.Millisecond)})
	// Exactly at the timeout has not yet elapsed.
	if !seq.Feed(Event{Key: key.B, Down: true, Time: epoch.Add(100 * time.Millisecond)}) {
		t.Fatal("expected match at exactly the timeout")
	}
}

func TestSequenceZeroTimeoutNeverExpires(t *testing.T) {
	seq := mustSeq(t, 0, mustCombo(t, key.A), mustCombo(t, key.B))
	s := newScript(t, seq)

	s.press(key.A)
	s.wait(24 * time.Hour)
	if seq.Expire(s.now) {
		t.Fatal("Expire reset a sequence without timeout")
	}
	s.press(key.B)
	s.expect(1)
}

func TestSequenceExpirePoll(t *testing.T) {
	seq := mustSeq(t, 50*time.Millisecond, mustCombo(t, key.A), mustCombo(t, key.B))
	s := newScript(t, seq)

	if seq.Expire(s.now.Add(time.Hour)) {
		t.Fatal("Expire at step 0 should be a no-op")
	}
	s.press(key.A)
	if seq.Expire(s.now.Add(10 * time.Millisecond)) {
		t.Fatal("expired too early")
	}
	if !seq.Expire(s.now.Add(60 * time.Millisecond)) {
		t.Fatal("expected expiry after the timeout")
	}
	if step, _ := seq.Progress(); step != 0 {
		t.Fatalf("step = %d, want 0", step)
	}
}

func TestSequenceStepReleasedAfterAdvance(t *testing.T) {
	// The release of Print happens after the sequence moved on; the first
	// step must still see it or Print could never match again.
	s := newScript(t, mustSeq(t, 0,
		mustCombo(t, key.PrintScreen),
		mustCombo(t, key.Shift, key.A)))

	s.press(key.PrintScreen)
	s.press(key.LeftShift, key.A)
	s.press(key.PrintScreen)
	s.press(key.LeftShift, key.A)
	s.expect(2)
}

func TestSequenceSameChordTwice(t *testing.T) {
	s := newScript(t, mustSeq(t, 300*time.Millisecond,
		mustCombo(t, key.Control, key.K),
		mustCombo(t, key.Control, key.K)))

	s.press(key.LeftControl, key.K)
	s.expect(0)
	s.press(key.LeftControl, key.K)
	s.expect(1)
}

func TestSequenceModifierHeldAcrossSteps(t *testing.T) {
	s := newScript(t, mustSeq(t, time.Second,
		mustCombo(t, key.Control, key.K),
		mustCombo(t, key.Control, key.C)))

	s.down(key.LeftControl)
	s.press(key.K)
	s.press(key.C)
	s.expect(1)
	s.press(key.K)
	s.press(key.C)
	s.expect(2)
	s.up(key.LeftControl)

	// Released modifiers are not carried.
	s.press(key.LeftControl, key.K)
	s.press(key.C)
	s.expect(2)
}

func TestSequenceHeldModifierSameChordTwice(t *testing.T) {
	s := newScript(t, mustSeq(t, time.Second,
		mustCombo(t, key.Control, key.K),
		mustCombo(t, key.Control, key.K)))

	// The carried Ctrl alone must not complete the second step.
	s.down(key.LeftControl, key.K)
	s.expect(0)
	s.up(key.K)
	s.down(key.K)
	s.expect(1)
	s.up(key.K, key.LeftControl)
}

func TestSequenceNested(t *testing.T) {
	// "g g" or "G" after a leader key.
	gg := mustSeq(t, 0, mustCombo(t, key.G), mustCombo(t, key.G))
	shiftG := mustCombo(t, key.Shift, key.G)
	seq := mustSeq(t, 0, mustCombo(t, key.Space), mustAlt(t, gg, shiftG))
	s := newScript(t, seq)

	s.press(key.Space)
	s.press(key.G)
	s.expect(0)
	s.press(key.G)
	s.expect(1)

	s.press(key.Space)
	s.press(key.LeftShift, key.G)
	s.expect(2)

	// The G pressed for Shift+G also advanced the "g g" branch; that
	// progress must not survive into the next round.
	s.press(key.Space)
	s.press(key.G)
	s.expect(2)
	s.press(key.G)
	s.expect(3)
}

func TestNewSequenceErrors(t *testing.T) {
	if _, err := NewSequence(0); !errors.Is(err, ErrEmptySequence) {
		t.Errorf("empty sequence error = %v", err)
	}
	if _, err := NewSequence(-time.Second, mustCombo(t, key.A)); !errors.Is(err, ErrNegativeTimeout) {
		t.Errorf("negative timeout error = %v", err)
	}
	if _, err := NewSequence(0, nil); !errors.Is(err, ErrNilMatcher) {
		t.Errorf("nil step error = %v", err)
	}
}
