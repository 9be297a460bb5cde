package vmclient

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
)

var ErrAPI = errors.New("vmconsole api")

// ErrorResponse is the JSON the console API responds with on failure.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Missing []string          `json:"missing,omitempty"`
	Invalid map[string]string `json:"invalid,omitempty"`
}

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Response   ErrorResponse
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (HTTP Status: %d): %s", ErrAPI, e.StatusCode, e.Response.Error)
}

func (e *APIError) Unwrap() error { return ErrAPI }

func toErrorFromResponse(resp *resty.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode()}
	if err := json.Unmarshal(resp.Body(), &apiErr.Response); err != nil {
		return errors.Join(ErrAPI, fmt.Errorf("(HTTP Status: %d) unable to parse json error response: %s", resp.StatusCode(), err))
	}

	return apiErr
}
