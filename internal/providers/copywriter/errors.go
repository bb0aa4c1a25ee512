package copywriter

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

// StatusError is returned when an upstream API answers with a non-2xx status.
type StatusError struct {
	Provider string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d", e.Provider, e.Code)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.Code, e.Body)
}

const maxErrorBody = 512

func newStatusError(provider string, resp *http.Response) *StatusError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		Provider: provider,
		Code:     resp.StatusCode,
		Body:     strings.TrimSpace(string(body)),
	}
}
