package capture

import (
	"io"
	"testing"
)

func TestSliceCapturerYieldsBuffersInOrder(t *testing.T) {
	var first, second Buffer
	first[0] = 1
	second[0] = 2

	c := NewSliceCapturer([]Buffer{first, second})

	got1, err := c.Next()
	if err != nil {
		t.Fatalf("first Next failed: %v", err)
	}
	if got1[0] != 1 {
		t.Errorf("first buffer[0] = %d, want 1", got1[0])
	}

	got2, err := c.Next()
	if err != nil {
		t.Fatalf("second Next failed: %v", err)
	}
	if got2[0] != 2 {
		t.Errorf("second buffer[0] = %d, want 2", got2[0])
	}
}

func TestSliceCapturerReturnsEOFWhenExhausted(t *testing.T) {
	c := NewSliceCapturer(nil)

	_, err := c.Next()
	if err != io.EOF {
		t.Fatalf("Next() err = %v, want io.EOF", err)
	}
}

func TestSliceCapturerCloseMarksClosed(t *testing.T) {
	c := NewSliceCapturer(nil)
	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !c.closed {
		t.Error("closed flag not set after Close")
	}
}
