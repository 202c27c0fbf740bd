package codec

import (
	"bytes"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte(""),
		[]byte("hello\n"),
		bytes.Repeat([]byte("abcdefgh"), 4096),
	}
	for _, data := range cases {
		compressed, err := Compress(data)
		if err != nil {
			t.Fatalf("Compress: %v", err)
		}
		out, err := Decompress(compressed, "")
		if err != nil {
			t.Fatalf("Decompress: %v", err)
		}
		if !bytes.Equal(out, data) {
			t.Fatalf("round trip mismatch: got %d bytes, want %d", len(out), len(data))
		}
	}
}

func TestDecompressTruncated(t *testing.T) {
	compressed, err := Compress([]byte("some reasonably long payload to compress"))
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	truncated := compressed[:len(compressed)-2]
	if _, err := Decompress(truncated, "deadbeef"); err == nil {
		t.Fatalf("expected error decompressing truncated stream")
	}
}

func TestDecompressGarbage(t *testing.T) {
	if _, err := Decompress([]byte{0xff, 0xff, 0xff, 0xff}, "deadbeef"); err == nil {
		t.Fatalf("expected error decompressing garbage")
	}
}
