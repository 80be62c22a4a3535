package http

import "net/http"

// Clienter is the request surface shared by Client and test doubles.
type Clienter interface {
	Request(method, path string, body any, opts ...func(*RequestOption)) (*http.Response, error)
}

// RequestInterceptor runs before a request is sent. Returning an error aborts it.
type RequestInterceptor func(req *http.Request) error

// ResponseInterceptor runs on every received response before status
// validation. Returning an error aborts response processing.
type ResponseInterceptor func(resp *http.Response) error

var _ Clienter = (*Client)(nil)
