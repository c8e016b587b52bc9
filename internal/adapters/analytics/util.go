package analytics

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	perr "datalens/internal/platform/errors"
)

// StatusError wraps non-2xx responses from the gateway
type StatusError struct {
	Status int
	Body   string
	Err    error
}

// Error interface
func (e *StatusError) Error() string { return e.Err.Error() }

// Unwrap interface
func (e *StatusError) Unwrap() error { return e.Err }

// HTTPStatus interface
func (e *StatusError) HTTPStatus() int { return e.Status }

// UpstreamStatus returns the gateway status carried by err, 0 when there is none
func UpstreamStatus(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return 0
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// statusError reads the error body and maps the status onto an error code
func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
	_ = resp.Body.Close()

	msg := errorMessage(resp.StatusCode, body)
	var code perr.ErrorCode
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		code = perr.ErrorCodeUnauthorized
	case http.StatusForbidden:
		code = perr.ErrorCodeForbidden
	case http.StatusTooManyRequests:
		code = perr.ErrorCodeTooManyRequests
	case http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		code = perr.ErrorCodeUnavailable
	default:
		code = perr.ErrorCodeUpstream
	}
	se := &StatusError{Status: resp.StatusCode, Body: string(body), Err: fmt.Errorf("druid status %d", resp.StatusCode)}
	return perr.Wrap(se, code, msg)
}

// errorMessage prefers message, then error, then a status line
func errorMessage(status int, body []byte) string {
	var m struct {
		Message any `json:"message"`
		Error   any `json:"error"`
	}
	if json.Unmarshal(body, &m) == nil {
		if s := asText(m.Message); s != "" {
			return s
		}
		if s := asText(m.Error); s != "" {
			return s
		}
	}
	return fmt.Sprintf("HTTP %d: %s", status, http.StatusText(status))
}

func asText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 512))
	return rc.Close()
}
