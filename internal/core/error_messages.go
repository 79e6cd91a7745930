package core

// error_messages.go maps technical errors to user-friendly messages with
// codes for support reference. Users can quote the code when reporting a
// problem.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the maximum upload size
//	          Patterns: "file too large", "request body too large"
//	FILE002 - Unsupported format: Only .xls and .xlsx are accepted
//	          Kind: KindUnsupportedFormat
//	FILE003 - No file: No file was selected
//	          Patterns: "no file provided"
//	FILE004 - Empty file: The uploaded file is empty
//	          Sentinel: errEmptyFile
//
// # Workbook Errors (XLS001-XLS099)
//
//	XLS001 - Unreadable workbook: The parser could not open the file
//	         Kind: KindRead
//	XLS002 - Extension mismatch: Content does not match the extension
//	         Sentinel: errContentMismatch
//	XLS003 - Sheet not found: The selected sheet does not exist
//	         Sentinel: errSheetNotFound
//
// # Preview and Export Errors (PRV001, EXP001-EXP099)
//
//	PRV001 - Preview failed: Non-fatal, export can still be attempted
//	         Kind: KindPreview
//	EXP001 - Export failed: Serialization or encoding failed
//	         Kind: KindExport
//	EXP002 - Nothing to export: The sheet is empty
//	         Kind: KindFormat
//	EXP003 - Quoting required: A value cannot be written without quotes
//	         Sentinel: errNeedsQuoting
//
// # Session and Capacity Errors (SES001, UPL001-UPL099, RATE001)
//
//	SES001  - Session expired: The upload is no longer held by the server
//	          Kind: KindNotFound
//	UPL002  - System busy: Too many conversions in progress
//	          Sentinel: ErrTooManyConversions
//	UPL004  - Request cancelled
//	          Sentinel: context.Canceled
//	UPL005  - Request timeout
//	          Sentinel: context.DeadlineExceeded
//	RATE001 - Rate limited: Too many requests
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check the application logs for the
// technical error.
//
// Sentinels are checked first with errors.Is, then the error kind. Text
// patterns apply only to errors without a kind, so values quoted inside a
// core error message never select a code.

import (
	"context"
	"errors"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Remove unused sheets or split the workbook and try again",
			Code:    "FILE001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Remove unused sheets or split the workbook and try again",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Choose an .xls or .xlsx file to convert",
			Code:    "FILE003",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

type sentinelMessage struct {
	target error
	msg    UserMessage
}

var sentinelMessages = []sentinelMessage{
	{
		target: errEmptyFile,
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Upload a workbook that contains data",
			Code:    "FILE004",
		},
	},
	{
		target: errContentMismatch,
		msg: UserMessage{
			Message: "The file content does not match its extension",
			Action:  "Rename the file to the correct extension (.xls or .xlsx) and upload it again",
			Code:    "XLS002",
		},
	},
	{
		target: errSheetNotFound,
		msg: UserMessage{
			Message: "The selected sheet does not exist in this workbook",
			Action:  "Pick one of the listed sheets",
			Code:    "XLS003",
		},
	},
	{
		target: errNeedsQuoting,
		msg: UserMessage{
			Message: "A value contains the delimiter, a quote or a line break and cannot be written without quotes",
			Action:  "Choose a quoting mode other than \"none\" or a different delimiter",
			Code:    "EXP003",
		},
	},
	{
		target: ErrTooManyConversions,
		msg: UserMessage{
			Message: "Too many conversions in progress",
			Action:  "Please wait a moment and try again",
			Code:    "UPL002",
		},
	},
	{
		target: context.Canceled,
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		target: context.DeadlineExceeded,
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller workbook or try again later",
			Code:    "UPL005",
		},
	},
}

var kindMessages = map[Kind]UserMessage{
	KindUnsupportedFormat: {
		Message: "Unsupported file format",
		Action:  "Upload an .xls or .xlsx file",
		Code:    "FILE002",
	},
	KindRead: {
		Message: "The workbook could not be read",
		Action:  "Check that the file opens in Excel, or save it again and re-upload",
		Code:    "XLS001",
	},
	KindPreview: {
		Message: "The preview could not be generated",
		Action:  "You can still try to export the sheet",
		Code:    "PRV001",
	},
	KindExport: {
		Message: "The conversion failed",
		Action:  "Change the export options or re-upload the file and try again",
		Code:    "EXP001",
	},
	KindFormat: {
		Message: "The selected sheet has nothing to export",
		Action:  "Pick a sheet that contains data",
		Code:    "EXP002",
	},
	KindNotFound: {
		Message: "Your upload has expired",
		Action:  "Upload the file again",
		Code:    "SES001",
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
// Example:
//
//	msg := MapError(&Error{Kind: KindUnsupportedFormat})
//	// msg.Code == "FILE002"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.target) {
			return sm.msg
		}
	}

	if kind := KindOf(err); kind != KindUnknown {
		if msg, ok := kindMessages[kind]; ok {
			return msg
		}
		return defaultMessage
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}
