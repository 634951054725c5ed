package core

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestBOMSkippingReader(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "file with BOM",
			input:    append([]byte{0xEF, 0xBB, 0xBF}, []byte("hello,world")...),
			expected: "hello,world",
		},
		{
			name:     "file without BOM",
			input:    []byte("hello,world"),
			expected: "hello,world",
		},
		{
			name:     "empty file",
			input:    []byte{},
			expected: "",
		},
		{
			name:     "only BOM",
			input:    []byte{0xEF, 0xBB, 0xBF},
			expected: "",
		},
		{
			name:     "partial BOM at start",
			input:    []byte{0xEF, 0xBB, 'a', 'b', 'c'},
			expected: string([]byte{0xEF, 0xBB, 'a', 'b', 'c'}),
		},
		{
			name:     "BOM only stripped once",
			input:    []byte{0xEF, 0xBB, 0xBF, 0xEF, 0xBB, 0xBF, 'x'},
			expected: string([]byte{0xEF, 0xBB, 0xBF, 'x'}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := NewBOMSkippingReader(bytes.NewReader(tt.input))
			result, err := io.ReadAll(reader)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(result) != tt.expected {
				t.Errorf("got %q, want %q", string(result), tt.expected)
			}
		})
	}
}

func TestSizeLimitReader(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		limit   int64
		wantErr bool
	}{
		{name: "under limit", input: "abc", limit: 10},
		{name: "exactly at limit", input: "abcdefghij", limit: 10},
		{name: "one byte over", input: "abcdefghijk", limit: 10, wantErr: true},
		{name: "far over", input: strings.Repeat("x", 1000), limit: 10, wantErr: true},
		{name: "zero disables check", input: strings.Repeat("x", 1000), limit: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := io.ReadAll(NewSizeLimitReader(strings.NewReader(tt.input), tt.limit))
			if tt.wantErr {
				if !errors.Is(err, ErrFileTooLarge) {
					t.Fatalf("err = %v, want ErrFileTooLarge", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.input {
				t.Errorf("read %d bytes, want %d", len(got), len(tt.input))
			}
		})
	}
}

func TestCountingReader(t *testing.T) {
	input := strings.Repeat("row,value\n", 50)
	cr := NewCountingReader(strings.NewReader(input))

	if _, err := io.Copy(io.Discard, cr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cr.BytesRead != int64(len(input)) {
		t.Errorf("BytesRead = %d, want %d", cr.BytesRead, len(input))
	}
}

func TestWrapUpload(t *testing.T) {
	input := "Name\nAda\n"

	cr := WrapUpload(strings.NewReader(input), 100)
	got, err := io.ReadAll(cr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != input {
		t.Errorf("got %q, want %q", got, input)
	}
	if cr.BytesRead != int64(len(input)) {
		t.Errorf("BytesRead = %d, want %d", cr.BytesRead, len(input))
	}

	_, err = io.ReadAll(WrapUpload(strings.NewReader(input), 4))
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("err = %v, want ErrFileTooLarge", err)
	}
}
