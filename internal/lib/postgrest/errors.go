package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/deppfellow/names-api/internal/sqlerr"
)

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 64 << 10

// apiError is the JSON body PostgREST returns on failure.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// ResponseError is returned for every non-2xx gateway response.
type ResponseError struct {
	Method     string
	Table      string
	StatusCode int

	// SQL is the classified gateway error; nil when the body carried no code
	// (HEAD responses never do).
	SQL *sqlerr.Error
}

func (e *ResponseError) Error() string {
	if e.SQL != nil {
		return fmt.Sprintf("postgrest: %s %s: status %d: %s", e.Method, e.Table, e.StatusCode, e.SQL.Error())
	}
	return fmt.Sprintf("postgrest: %s %s: status %d", e.Method, e.Table, e.StatusCode)
}

func (e *ResponseError) Unwrap() error {
	if e.SQL == nil {
		return nil
	}
	return e.SQL
}

// exchange is the parent transport of one gateway call. It runs the request
// under ctx and keeps what postgrest-go drops: the status, the
// Content-Range header and the body of an error response.
type exchange struct {
	ctx  context.Context
	next http.RoundTripper

	status       int
	contentRange string
	errBody      []byte
}

func (e *exchange) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := e.next.RoundTrip(req.WithContext(e.ctx))
	if err != nil {
		return nil, err
	}

	e.status = resp.StatusCode
	e.contentRange = resp.Header.Get("Content-Range")

	if resp.StatusCode >= http.StatusBadRequest {
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		resp.Body.Close()
		if readErr == nil {
			e.errBody = body
		}
		resp.Body = io.NopCloser(bytes.NewReader(body))
	}
	return resp, nil
}

// fail turns an error from postgrest-go into a *ResponseError when the
// gateway answered, or wraps the transport error otherwise.
func (e *exchange) fail(method, table string, err error) error {
	if e.status == 0 {
		return fmt.Errorf("postgrest: %s %s: %w", method, table, err)
	}
	return newResponseError(method, table, e.status, e.errBody)
}

func newResponseError(method, table string, status int, body []byte) *ResponseError {
	respErr := &ResponseError{
		Method:     method,
		Table:      table,
		StatusCode: status,
	}

	if len(body) == 0 {
		return respErr
	}

	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err != nil || (apiErr.Code == "" && apiErr.Message == "") {
		return respErr
	}

	sqlErr := sqlerr.New(apiErr.Code, apiErr.Message)
	sqlErr.Details = apiErr.Details
	sqlErr.Hint = apiErr.Hint
	sqlErr.TableName = table
	respErr.SQL = sqlErr

	return respErr
}
