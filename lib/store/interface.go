package store

import (
	"errors"
	"fmt"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IStore is the generic interface for executing commands against a sybd database.
// Logical misses are part of the reply (see db.MissPrefix), the error is only
// set for malformed commands or infrastructure failures and is of type *Error.
type IStore interface {
	// Execute runs one command line and returns the textual reply.
	Execute(query string) (reply string, err error)
	// Close releases the resources held by the store.
	Close() (err error)
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
	err  error   // The wrapped error (only set for local errors)
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("StoreError (code %s): %s", e.Code, e.Msg)
}

// Unwrap returns the wrapped error (if any)
func (e *Error) Unwrap() error {
	return e.err
}

// NewError creates a new Error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// WrapError creates a new Error with the given code that wraps err.
func WrapError(code RetCode, err error) *Error {
	return &Error{
		Code: code,
		Msg:  err.Error(),
		err:  err,
	}
}

// CodeOf returns the return code of err.
// Errors that are not of type *Error are reported as RetCInternalError.
func CodeOf(err error) RetCode {
	if err == nil {
		return RetCSuccess
	}
	var storeErr *Error
	if errors.As(err, &storeErr) {
		return storeErr.Code
	}
	return RetCInternalError
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess       RetCode = iota // 0: Command executed successfully.
	RetCInternalError                // 1: Command failed due to an internal error.
	RetCProtocolError                // 2: Command was malformed (unknown verb, missing or invalid argument).
	RetCNoSnapshot                   // 3: Snapshot operation without a configured snapshot file.
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCProtocolError:
		return "ProtocolError"
	case RetCNoSnapshot:
		return "NoSnapshot"
	default:
		return "Unknown"
	}
}
