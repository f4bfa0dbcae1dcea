// Package apperr is the error taxonomy shared by every slice. Services return
// *Error values; the HTTP layer renders them as Response bodies.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

type Code string

const (
	BadRequest       Code = "BAD_REQUEST"
	Unauthorized     Code = "UNAUTHORIZED"
	Forbidden        Code = "FORBIDDEN"
	NotFound         Code = "NOT_FOUND"
	MethodNotAllowed Code = "METHOD_NOT_ALLOWED"
	Conflict         Code = "CONFLICT"
	DuplicateRequest Code = "DUPLICATE_REQUEST"
	Internal         Code = "INTERNAL_SERVER_ERROR"
)

type codeInfo struct {
	status int
	msg    string
}

var codes = map[Code]codeInfo{
	BadRequest:       {http.StatusBadRequest, "bad request"},
	Unauthorized:     {http.StatusUnauthorized, "authentication failed"},
	Forbidden:        {http.StatusForbidden, "access denied"},
	NotFound:         {http.StatusNotFound, "resource not found"},
	MethodNotAllowed: {http.StatusMethodNotAllowed, "method not allowed"},
	Conflict:         {http.StatusConflict, "resource conflict"},
	DuplicateRequest: {http.StatusConflict, "duplicate request"},
	Internal:         {http.StatusInternalServerError, "internal server error"},
}

// HTTPStatus of the code; unknown codes map to 500.
func (c Code) HTTPStatus() int {
	if i, ok := codes[c]; ok {
		return i.status
	}
	return http.StatusInternalServerError
}

// ErrorCode is the stable short code exposed to clients: the status as a string.
func (c Code) ErrorCode() string { return strconv.Itoa(c.HTTPStatus()) }

func (c Code) DefaultMessage() string {
	if i, ok := codes[c]; ok {
		return i.msg
	}
	return codes[Internal].msg
}

type Error struct {
	Code Code
	Msg  string
	Err  error
	At   time.Time
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error carrying the same code, so errors.Is(err, apperr.ErrNotFound) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Sentinels for errors.Is.
var (
	ErrBadRequest       = &Error{Code: BadRequest}
	ErrNotFound         = &Error{Code: NotFound}
	ErrConflict         = &Error{Code: Conflict}
	ErrDuplicateRequest = &Error{Code: DuplicateRequest}
	ErrInternal         = &Error{Code: Internal}
)

func New(code Code, msg string) *Error {
	if msg == "" {
		msg = code.DefaultMessage()
	}
	return &Error{Code: code, Msg: msg, At: time.Now()}
}

func Wrap(code Code, msg string, err error) *Error {
	e := New(code, msg)
	e.Err = err
	return e
}

func NewNotFound(format string, args ...any) *Error {
	return New(NotFound, fmt.Sprintf(format, args...))
}

func NewBadRequest(format string, args ...any) *Error {
	return New(BadRequest, fmt.Sprintf(format, args...))
}

func NewConflict(msg string, err error) *Error { return Wrap(Conflict, msg, err) }

func NewDuplicateRequest(msg string) *Error { return New(DuplicateRequest, msg) }

func NewInternal(msg string, err error) *Error { return Wrap(Internal, msg, err) }

// From classifies an arbitrary error. Typed errors anywhere in the chain win;
// everything else becomes INTERNAL carrying the error text.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Wrap(Internal, err.Error(), err)
}

// Response is the JSON body written for every failed request.
type Response struct {
	HTTPStatus int    `json:"httpStatus"`
	ErrorCode  string `json:"errorCode"`
	Timestamp  int64  `json:"timestamp"`
	Message    string `json:"message"`
}

func (e *Error) Response() Response {
	at := e.At
	if at.IsZero() {
		at = time.Now()
	}
	msg := e.Msg
	if msg == "" {
		msg = e.Code.DefaultMessage()
	}
	return Response{
		HTTPStatus: e.Code.HTTPStatus(),
		ErrorCode:  e.Code.ErrorCode(),
		Timestamp:  at.UnixMilli(),
		Message:    msg,
	}
}
