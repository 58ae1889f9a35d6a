// Package errs provides the error values a node's web API responds with.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Response is the body written back for every failed request.
type Response struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Trusted is an error whose message is safe to hand to a client, paired
// with the HTTP status the request should fail with. Anything that isn't
// a Trusted error is reported to the client as a 500 with no detail.
type Trusted struct {
	Err    error
	Status int
}

// NewTrusted marks err as safe to return to the client with status.
func NewTrusted(err error, status int) error {
	return &Trusted{Err: err, Status: status}
}

// NewTrustedf is NewTrusted for a message built in place.
func NewTrustedf(status int, format string, args ...any) error {
	return NewTrusted(fmt.Errorf(format, args...), status)
}

// BadRequest fails the request with a 400, used for input the node can't
// parse such as a malformed body, block number or peer address.
func BadRequest(err error) error {
	return NewTrusted(err, http.StatusBadRequest)
}

// Conflict fails the request with a 409, used when the chain moved under
// an operation such as mining.
func Conflict(err error) error {
	return NewTrusted(err, http.StatusConflict)
}

// Error implements the error interface.
func (t *Trusted) Error() string {
	return t.Err.Error()
}

// Unwrap returns the wrapped error so errors.Is can see the ledger errors
// behind the status.
func (t *Trusted) Unwrap() error {
	return t.Err
}

// GetTrusted returns the Trusted error in err's chain, if there is one.
func GetTrusted(err error) (*Trusted, bool) {
	var t *Trusted
	if !errors.As(err, &t) {
		return nil, false
	}
	return t, true
}

// Respond converts err into the response body and status for the client.
func Respond(err error) (Response, int) {
	if t, ok := GetTrusted(err); ok {
		return Response{Error: t.Error()}, t.Status
	}

	return Response{Error: http.StatusText(http.StatusInternalServerError)}, http.StatusInternalServerError
}
