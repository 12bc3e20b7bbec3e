package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ZaguanLabs/chattl"
)

// DefaultTimeout bounds a single provider HTTP call.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how many runes of an error response are kept in the error message.
const maxErrorBody = 512

func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: DefaultTimeout}
}

// do sends req and returns the response body for 2xx statuses. Any other
// status becomes a ProviderError carrying the status code.
func do(client *http.Client, name chattl.ProviderName, req *http.Request) ([]byte, error) {
	req.Header.Set("User-Agent", chattl.UserAgent())

	resp, err := client.Do(req)
	if err != nil {
		return nil, transportError(req.Context(), name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &chattl.ProviderError{
			Provider:  name,
			Status:    resp.StatusCode,
			Message:   "read response",
			Cause:     err,
			Retryable: true,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(name, resp.StatusCode, body)
	}
	return body, nil
}

func statusError(name chattl.ProviderName, status int, body []byte) *chattl.ProviderError {
	msg := chattl.TruncateRunes(strings.TrimSpace(string(body)), maxErrorBody)
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &chattl.ProviderError{
		Provider:  name,
		Status:    status,
		Message:   msg,
		Retryable: status == http.StatusTooManyRequests || status >= 500,
	}
}

func transportError(ctx context.Context, name chattl.ProviderName, err error) error {
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return ctx.Err()
	}
	return &chattl.ProviderError{
		Provider:  name,
		Message:   "request failed",
		Cause:     err,
		Retryable: true,
	}
}

func invalidResponse(name chattl.ProviderName, cause error) *chattl.ProviderError {
	msg := "invalid response"
	if cause != nil {
		msg = fmt.Sprintf("invalid response: %v", cause)
	}
	return &chattl.ProviderError{Provider: name, Message: msg}
}
