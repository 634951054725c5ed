package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{name: "nil error returns empty", err: nil, wantCode: ""},
		{name: "file too large", err: fmt.Errorf("%w: exceeds 10 bytes", ErrFileTooLarge), wantCode: "FILE001"},
		{name: "invalid csv", err: &LoadError{FileName: "a.csv", Format: FormatCSV, Err: errors.New("invalid csv: bare quote")}, wantCode: "FILE002"},
		{name: "encoding", err: &LoadError{FileName: "a.csv", Err: errors.New("encoding error: file is not valid UTF-8")}, wantCode: "FILE003"},
		{name: "no file", err: errors.New("no file provided"), wantCode: "FILE004"},
		{name: "empty file", err: &LoadError{FileName: "a.csv", Err: ErrEmptyFile}, wantCode: "FILE005"},
		{name: "unsupported type", err: &LoadError{FileName: "a.txt", Err: ErrUnsupportedFormat}, wantCode: "FILE006"},
		{name: "invalid spreadsheet", err: errors.New("invalid spreadsheet: zip: not a valid zip file"), wantCode: "FILE007"},
		{name: "column not found", err: &QueryError{Column: "Nope", Err: ErrColumnNotFound}, wantCode: "QRY001"},
		{name: "no table", err: &QueryError{Err: ErrNoTable}, wantCode: "QRY002"},
		{name: "record out of range", err: fmt.Errorf("%w: row 12", ErrRecordNotFound), wantCode: "QRY003"},
		{name: "bad record index", err: errors.New("record index must be a row number"), wantCode: "QRY003"},
		{name: "too many uploads", err: ErrTooManyUploads, wantCode: "UPL002"},
		{name: "cancelled", err: context.Canceled, wantCode: "UPL004"},
		{name: "deadline", err: context.DeadlineExceeded, wantCode: "UPL005"},
		{name: "rate limit", err: errors.New("rate limit exceeded"), wantCode: "RATE001"},
		{name: "case insensitive", err: errors.New("INVALID CSV"), wantCode: "FILE002"},
		{name: "unknown error returns default", err: errors.New("some random internal error"), wantCode: "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(&QueryError{Column: "Nope", Err: ErrColumnNotFound})
	want := "The selected column does not exist in this file (Code: QRY001). Pick a column from the list"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}

	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error is not user facing", err: nil, want: false},
		{name: "known error is user facing", err: ErrEmptyFile, want: true},
		{name: "unknown error is not user facing", err: errors.New("random internal error xyz"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}
