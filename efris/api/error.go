package api

import "fmt"

// RequestError is an HTTP-level failure: transport errors and non-2xx
// statuses from the gateway front end. Business rejections travel in
// returnStateInfo and surface as efris.ApiError instead.
type RequestError struct {
	StatusCode int
	Err        error
	Body       string
}

func (r *RequestError) Error() string {
	return fmt.Sprintf("status: %d err: %v message: %s", r.StatusCode, r.Err, r.Body)
}

func (r *RequestError) Unwrap() error { return r.Err }
