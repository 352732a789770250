package media

import (
	"image/color"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

// stubEncoder installs a fake ffmpeg binary that exits with status 1 and puts
// it first on PATH, so writer behavior against a dead encoder is testable
// without a real encode.
func stubEncoder(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub encoder needs a shell script")
	}
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffmpeg")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\nexit 1\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir)
	return dir
}

// A full-size frame exceeds the OS pipe buffer. When the encoder process dies
// mid-stream the pending write must fail with its exit error, not block.
func TestMP4WriterFailsWhenEncoderDies(t *testing.T) {
	dir := stubEncoder(t)

	w, err := newFFmpegWriter(filepath.Join(dir, "out.mp4"), EncodeOptions{
		Width: 1080, Height: 1920, FPS: 24, Codec: "libx264", Bitrate: "5000k",
	})
	if err != nil {
		t.Fatalf("newFFmpegWriter: %v", err)
	}

	frame := solidFrame(1080, 1920, color.RGBA{255, 255, 255, 255})
	done := make(chan error, 1)
	go func() {
		var err error
		for i := 0; i < 10 && err == nil; i++ {
			err = w.WriteFrame(frame)
		}
		if err == nil {
			err = w.Close()
		}
		done <- err
	}()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("encoder exit was never surfaced as an error")
		}
	case <-time.After(10 * time.Second):
		t.Fatal("frame write blocked after the encoder exited")
	}
}

// Small frames fit in the pipe buffer and every write may succeed before the
// encoder's death is visible; Close must still report the exit status.
func TestMP4WriterCloseReportsEncoderFailure(t *testing.T) {
	dir := stubEncoder(t)

	w, err := newFFmpegWriter(filepath.Join(dir, "out.mp4"), EncodeOptions{
		Width: 16, Height: 16, FPS: 24, Codec: "libx264", Bitrate: "5000k",
	})
	if err != nil {
		t.Fatalf("newFFmpegWriter: %v", err)
	}

	frame := solidFrame(16, 16, color.RGBA{255, 255, 255, 255})
	var lastErr error
	for i := 0; i < 10 && lastErr == nil; i++ {
		lastErr = w.WriteFrame(frame)
	}
	closeErr := w.Close()
	if lastErr == nil && closeErr == nil {
		t.Fatal("encoder exit status 1 was swallowed")
	}
	// A second Close after the encoder is reaped is a no-op.
	if err := w.Close(); err != nil {
		t.Errorf("repeated Close: %v", err)
	}
}
