package gateway

import (
	"fmt"
	"net/http"

	"github.com/fastygo/taskbox/domain"
)

// Result is the outcome of one call: Success, HTTPError or NetworkUnreachable.
// Whether a response arrived at all is what separates a forced logout from
// the offline banner.
type Result interface {
	OK() bool
	Error() string
}

type Success struct {
	Status int
	Body   []byte
}

// HTTPError is a response with a non-2xx status.
type HTTPError struct {
	Status  int
	Message string
	Fields  []domain.FieldError
}

// NetworkUnreachable means no response arrived.
type NetworkUnreachable struct {
	Err error
}

func (Success) OK() bool            { return true }
func (HTTPError) OK() bool          { return false }
func (NetworkUnreachable) OK() bool { return false }

func (s Success) Error() string { return "" }

func (e HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.Status)
}

func (e HTTPError) Unauthorized() bool { return e.Status == http.StatusUnauthorized }

func (e NetworkUnreachable) Error() string {
	return fmt.Sprintf("server unreachable: %v", e.Err)
}
