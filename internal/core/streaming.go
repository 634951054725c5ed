package core

// streaming.go provides io.Reader wrappers used while reading an upload:
//
//   - BOMSkippingReader: Removes UTF-8 BOM (0xEF 0xBB 0xBF) from Windows files
//   - SizeLimitReader: Fails with ErrFileTooLarge past a byte limit
//   - CountingReader: Tracks bytes read for logging
//
// Use WrapUpload to apply all of them in the correct order.

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// BOMSkippingReader wraps an io.Reader and skips the UTF-8 BOM if present.
type BOMSkippingReader struct {
	r       *bufio.Reader
	checked bool
}

// NewBOMSkippingReader creates a new BOM-skipping reader.
func NewBOMSkippingReader(r io.Reader) *BOMSkippingReader {
	return &BOMSkippingReader{r: bufio.NewReader(r)}
}

// Read implements io.Reader. On the first read, it checks for and skips the BOM.
func (b *BOMSkippingReader) Read(p []byte) (int, error) {
	if !b.checked {
		b.checked = true
		head, err := b.r.Peek(len(utf8BOM))
		if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
			return 0, err
		}
		if bytes.Equal(head, utf8BOM) {
			if _, err := b.r.Discard(len(utf8BOM)); err != nil {
				return 0, err
			}
		}
	}
	return b.r.Read(p)
}

// SizeLimitReader reads at most Limit bytes and returns ErrFileTooLarge if
// the underlying reader holds more.
type SizeLimitReader struct {
	reader io.Reader
	Limit  int64
	read   int64
}

// NewSizeLimitReader wraps r with a byte limit. A limit <= 0 disables the check.
func NewSizeLimitReader(r io.Reader, limit int64) *SizeLimitReader {
	return &SizeLimitReader{reader: r, Limit: limit}
}

// Read implements io.Reader.
func (s *SizeLimitReader) Read(p []byte) (int, error) {
	if s.Limit <= 0 {
		return s.reader.Read(p)
	}
	// Allow one byte past the limit so an exact-size file is not rejected.
	if remaining := s.Limit + 1 - s.read; int64(len(p)) > remaining {
		p = p[:remaining]
	}
	n, err := s.reader.Read(p)
	s.read += int64(n)
	if s.read > s.Limit {
		return n, fmt.Errorf("%w: exceeds %d bytes", ErrFileTooLarge, s.Limit)
	}
	return n, err
}

// CountingReader wraps an io.Reader to track bytes read.
type CountingReader struct {
	reader    io.Reader
	BytesRead int64
}

// NewCountingReader creates a counting reader.
func NewCountingReader(r io.Reader) *CountingReader {
	return &CountingReader{reader: r}
}

// Read implements io.Reader.
func (c *CountingReader) Read(p []byte) (int, error) {
	n, err := c.reader.Read(p)
	c.BytesRead += int64(n)
	return n, err
}

// WrapUpload wraps an upload body with size limiting and byte counting.
//
// The order matters: the limit applies to raw bytes on the wire, and the
// counter reports what the loader actually consumed.
func WrapUpload(r io.Reader, limit int64) *CountingReader {
	return NewCountingReader(NewSizeLimitReader(r, limit))
}
