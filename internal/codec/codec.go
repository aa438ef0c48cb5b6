// Package codec decodes the two tile payload formats found in illustration
// containers: a dictionary-based LZO1X block and an LZ4 frame stream.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
	"github.com/rasky/go-lzo"
)

// ErrLength reports a decode that produced a different byte count than the
// destination geometry requires.
var ErrLength = errors.New("wrong decompressed length")

// DecodeLZO decodes a dictionary-compressed block into exactly dstLen bytes.
// A payload that inflates to any other size is rejected, so a corrupt tile
// can never smear past its destination rectangle.
func DecodeLZO(src []byte, dstLen int) ([]byte, error) {
	out, err := lzo.Decompress1X(bytes.NewReader(src), len(src), dstLen)
	if err != nil {
		return nil, fmt.Errorf("lzo: %w", err)
	}
	if len(out) != dstLen {
		return nil, fmt.Errorf("lzo: got %d bytes, want %d: %w", len(out), dstLen, ErrLength)
	}
	return out, nil
}

// DecodeLZ4 decodes a framed block stream until EOF into a fresh buffer and
// verifies the result holds exactly dstLen bytes.
func DecodeLZ4(src []byte, dstLen int) ([]byte, error) {
	zr := lz4.NewReader(bytes.NewReader(src))
	out := make([]byte, 0, dstLen)
	buf := bytes.NewBuffer(out)
	if _, err := io.Copy(buf, zr); err != nil {
		return nil, fmt.Errorf("lz4: %w", err)
	}
	if buf.Len() != dstLen {
		return nil, fmt.Errorf("lz4: got %d bytes, want %d: %w", buf.Len(), dstLen, ErrLength)
	}
	return buf.Bytes(), nil
}
