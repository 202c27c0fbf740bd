// Package codec implements the symmetric compress/decompress pair used for
// the on-disk encoding of stored objects: a raw deflate stream with no
// surrounding zlib or gzip framing, since the object file's entire content
// is exactly the compressed stream.
package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// Compress deflates data as a raw stream (no header, no checksum trailer).
// It fails only if the underlying writer reports an error, which in this
// in-memory usage can only happen on allocation failure.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return nil, fmt.Errorf("codec: create flate writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("codec: write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("codec: close: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress inflates a raw deflate stream produced by Compress. It returns
// an error identifying identity (when non-empty, for error messages) if the
// input is truncated, malformed, or never reaches a well-formed end of
// stream.
func Decompress(data []byte, identity string) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		if identity != "" {
			return nil, fmt.Errorf("codec: corrupt stream for object %s: %w", identity, err)
		}
		return nil, fmt.Errorf("codec: corrupt stream: %w", err)
	}
	return out, nil
}
