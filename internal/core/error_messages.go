package core

// error_messages.go maps technical errors to short messages with a code
// that users can quote when reporting a problem.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File not found
//	FILE002 - Invalid CSV (syntax error, record wider than the header)
//	FILE003 - Encoding error: no configured encoding could decode the file
//	FILE004 - Permission denied
//	FILE005 - Spreadsheet could not be opened or the sheet does not exist
//	FILE006 - Unknown encoding name in configuration
//
// # Merge Errors (MRG001-MRG099)
//
//	MRG001 - A matched source file could not be read; nothing was written
//	MRG002 - The merged output could not be written
//	MRG003 - Path is outside the server root
//
// # Request Errors (NET001-NET099)
//
//	NET001 - Request timed out
//	NET002 - Too many concurrent jobs
//	NET003 - Invalid request body
//
// # Export Errors (DB001-DB099)
//
//	DB001 - Database unreachable
//	DB002 - Export failed
//
// # Default Error (ERR000)
//
// Typed errors are matched first with errors.As / errors.Is, outermost
// first, so a DecodeError inside a SourceReadError reports MRG001. Anything
// else falls through to case-insensitive substring patterns; the first
// matching pattern wins.

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/JonMunkholm/datamine/internal/table"
	"github.com/JonMunkholm/datamine/internal/textenc"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var (
	msgNotFound = UserMessage{
		Message: "File not found",
		Action:  "Check the path and try again",
		Code:    "FILE001",
	}
	msgInvalidCSV = UserMessage{
		Message: "File is not a valid CSV",
		Action:  "Ensure the file is comma-separated and no row has more fields than the header",
		Code:    "FILE002",
	}
	msgEncoding = UserMessage{
		Message: "File encoding could not be determined",
		Action:  "Save the file as UTF-8, or add its encoding to ENCODING_CANDIDATES",
		Code:    "FILE003",
	}
	msgPermission = UserMessage{
		Message: "Permission denied",
		Action:  "Check file and directory permissions",
		Code:    "FILE004",
	}
	msgSpreadsheet = UserMessage{
		Message: "Spreadsheet could not be read",
		Action:  "Use an .xlsx workbook and check the sheet name or index",
		Code:    "FILE005",
	}
	msgUnknownEncoding = UserMessage{
		Message: "Unknown encoding name",
		Action:  "Use a standard label such as utf-8, cp949 or euc-kr",
		Code:    "FILE006",
	}
	msgSourceRead = UserMessage{
		Message: "A source file could not be read; nothing was merged",
		Action:  "Fix or remove the named file and run the merge again",
		Code:    "MRG001",
	}
	msgWrite = UserMessage{
		Message: "Merged output could not be written",
		Action:  "Check that the output directory exists and is writable",
		Code:    "MRG002",
	}
	msgTimeout = UserMessage{
		Message: "Request timed out",
		Action:  "Try again, or run the operation from the command line",
		Code:    "NET001",
	}
)

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns is consulted when no typed error matched.
var errorPatterns = []errorPattern{
	{pattern: "unknown encoding", msg: msgUnknownEncoding},
	{pattern: "encoding error", msg: msgEncoding},
	{pattern: "invalid csv", msg: msgInvalidCSV},
	{pattern: "sheet not found", msg: msgSpreadsheet},
	{pattern: "out of range", msg: msgSpreadsheet},
	{pattern: "unsupported spreadsheet", msg: msgSpreadsheet},
	{pattern: "opening zip archive", msg: msgSpreadsheet},
	{
		pattern: "outside server root",
		msg: UserMessage{
			Message: "Path is outside the server root",
			Action:  "Use a path relative to the configured SERVER_ROOT",
			Code:    "MRG003",
		},
	},
	{
		pattern: "too many concurrent jobs",
		msg: UserMessage{
			Message: "System busy: too many jobs in progress",
			Action:  "Please wait a moment and try again",
			Code:    "NET002",
		},
	},
	{
		pattern: "invalid request body",
		msg: UserMessage{
			Message: "Invalid request body",
			Action:  "Send a JSON object with the documented fields",
			Code:    "NET003",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Check DATABASE_URL and that the server is running",
			Code:    "DB001",
		},
	},
	{
		pattern: "export ",
		msg: UserMessage{
			Message: "Export failed",
			Action:  "Check the table name and database logs",
			Code:    "DB002",
		},
	},
	{pattern: "timeout", msg: msgTimeout},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the logs for the technical error",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var (
		writeErr  *WriteError
		sourceErr *SourceReadError
		decodeErr *DecodeError
		parseErr  *table.ParseError
	)
	switch {
	case errors.As(err, &writeErr):
		return msgWrite
	case errors.As(err, &sourceErr):
		return msgSourceRead
	case errors.As(err, &decodeErr):
		return msgEncoding
	case errors.As(err, &parseErr):
		return msgInvalidCSV
	case errors.Is(err, textenc.ErrUnknownEncoding):
		return msgUnknownEncoding
	case errors.Is(err, fs.ErrNotExist):
		return msgNotFound
	case errors.Is(err, fs.ErrPermission):
		return msgPermission
	case errors.Is(err, context.DeadlineExceeded):
		return msgTimeout
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
