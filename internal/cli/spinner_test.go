package cli

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinnerStartStop(t *testing.T) {
	s := newSpinner(spinnerGenerating)
	s.Start()
	time.Sleep(2 * spinnerInterval)
	s.Stop()
}

func TestSpinnerContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, spinnerPublishing)
	s.Start()
	cancel()

	// Give the goroutine time to notice.
	time.Sleep(2 * spinnerInterval)

	if !s.Cancelled() {
		t.Error("Cancelled() = false after context cancellation")
	}
}

func TestSpinnerContextTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), spinnerInterval)
	defer cancel()

	s := newSpinnerWithContext(ctx, spinnerGenerating)
	s.Start()
	time.Sleep(3 * spinnerInterval)

	if !s.Cancelled() {
		t.Error("Cancelled() = false after context timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(spinnerGenerating)
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithResult(t *testing.T) {
	s := newSpinner(spinnerPublishing)
	s.Start()
	time.Sleep(spinnerInterval)
	s.StopWithSuccess("Published")

	s = newSpinner(spinnerPublishing)
	s.Start()
	time.Sleep(spinnerInterval)
	s.StopWithError("Publish failed")
}

func TestSpinnerStageMessages(t *testing.T) {
	for _, msg := range []string{spinnerGenerating, spinnerPublishing} {
		if !strings.HasSuffix(msg, "...") {
			t.Errorf("spinner message %q should trail off with an ellipsis", msg)
		}
	}
}
