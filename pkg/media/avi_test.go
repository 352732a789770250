package media

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func solidFrame(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = 255
	}
	return img
}

func TestAVIWriterContainer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.avi")
	opts := EncodeOptions{Width: 16, Height: 16, FPS: 24}

	w := newAVIWriter(path, opts)
	colors := []color.RGBA{
		{255, 0, 0, 255},
		{0, 255, 0, 255},
		{0, 0, 255, 255},
	}
	for _, c := range colors {
		if err := w.WriteFrame(solidFrame(16, 16, c)); err != nil {
			t.Fatalf("WriteFrame: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "AVI " {
		t.Fatalf("not a RIFF/AVI file: % x", data[:12])
	}

	// The RIFF size field covers everything after the first 8 bytes.
	riffSize := binary.LittleEndian.Uint32(data[4:8])
	if int(riffSize) != len(data)-8 {
		t.Errorf("RIFF size = %d, file has %d payload bytes", riffSize, len(data)-8)
	}

	// avih total frames sits at a fixed offset in the deterministic header.
	if string(data[24:28]) != "avih" {
		t.Fatalf("expected avih chunk at offset 24, got %q", data[24:28])
	}
	totalFrames := binary.LittleEndian.Uint32(data[48:52])
	if totalFrames != 3 {
		t.Errorf("avih total frames = %d, want 3", totalFrames)
	}

	if !bytes.Contains(data, []byte("movi")) {
		t.Error("missing movi list")
	}

	idx := bytes.LastIndex(data, []byte("idx1"))
	if idx < 0 {
		t.Fatal("missing idx1 index")
	}
	idxSize := binary.LittleEndian.Uint32(data[idx+4 : idx+8])
	if idxSize != 3*16 {
		t.Errorf("idx1 size = %d, want %d", idxSize, 3*16)
	}
}

func TestAVIWriterRejectsWrongGeometry(t *testing.T) {
	w := newAVIWriter(filepath.Join(t.TempDir(), "out.avi"), EncodeOptions{Width: 16, Height: 16, FPS: 24})
	if err := w.WriteFrame(solidFrame(8, 8, color.RGBA{A: 255})); err == nil {
		t.Error("expected geometry mismatch error")
	}
}

func TestNewFrameWriterUnsupportedExtension(t *testing.T) {
	_, err := NewFrameWriter("out.webm", EncodeOptions{Width: 16, Height: 16, FPS: 24})
	if err == nil {
		t.Fatal("expected error for unsupported output extension")
	}
}
