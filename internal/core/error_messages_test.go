package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/JonMunkholm/datamine/internal/table"
	"github.com/JonMunkholm/datamine/internal/textenc"
)

func TestMapError(t *testing.T) {
	decodeErr := &DecodeError{Path: "a.csv", Tried: []string{"utf-8", "cp949"}}

	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{name: "nil error returns empty", err: nil, wantCode: ""},
		{name: "decode error", err: decodeErr, wantCode: "FILE003"},
		{name: "wrapped decode error", err: fmt.Errorf("read: %w", decodeErr), wantCode: "FILE003"},
		{name: "source read wins over cause", err: &SourceReadError{Path: "a.csv", Err: decodeErr}, wantCode: "MRG001"},
		{name: "write error", err: &WriteError{Path: "out.csv", Err: fs.ErrPermission}, wantCode: "MRG002"},
		{name: "parse error", err: &table.ParseError{Line: 3, Err: table.ErrTooManyFields}, wantCode: "FILE002"},
		{name: "unknown encoding", err: fmt.Errorf("config: %w", textenc.ErrUnknownEncoding), wantCode: "FILE006"},
		{name: "not found", err: fmt.Errorf("open x: %w", fs.ErrNotExist), wantCode: "FILE001"},
		{name: "permission", err: fmt.Errorf("open x: %w", fs.ErrPermission), wantCode: "FILE004"},
		{name: "deadline", err: context.DeadlineExceeded, wantCode: "NET001"},
		{name: "sheet pattern", err: errors.New("sheet not found: Sales"), wantCode: "FILE005"},
		{name: "root pattern", err: errors.New("path outside server root: ../etc"), wantCode: "MRG003"},
		{name: "busy pattern", err: errors.New("too many concurrent jobs, please try again later"), wantCode: "NET002"},
		{name: "case insensitive", err: errors.New("Connection Refused"), wantCode: "DB001"},
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
	err := &WriteError{Path: "out.csv", Err: errors.New("disk full")}
	result := FormatUserError(err)

	expected := "Merged output could not be written (Code: MRG002). Check that the output directory exists and is writable"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}

	if FormatUserError(nil) != "" {
		t.Error("FormatUserError(nil) should be empty")
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error is not user facing", err: nil, want: false},
		{name: "known error is user facing", err: &DecodeError{Path: "x"}, want: true},
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

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")

	if !errors.Is(&DecodeError{Err: cause}, cause) {
		t.Error("DecodeError should unwrap to its cause")
	}
	if !errors.Is(&SourceReadError{Err: cause}, cause) {
		t.Error("SourceReadError should unwrap to its cause")
	}
	if !errors.Is(&WriteError{Err: cause}, cause) {
		t.Error("WriteError should unwrap to its cause")
	}
}
