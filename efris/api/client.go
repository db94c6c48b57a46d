package api

import (
	"crypto/tls"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/efrisio/go-efris-client/efris"
	"github.com/efrisio/go-efris-client/efris/model"
	"github.com/efrisio/go-efris-client/efris/util"
)

// Client posts envelopes to the gateway's single endpoint. Every
// interface, from time sync to invoice upload, goes through the same
// POST; only the envelope differs.
type Client interface {
	PostEnvelope(envelope *model.Envelope) (*model.Envelope, error)
	Endpoint() string
}

type client struct {
	rest     *resty.Client
	endpoint string
}

type Option func(*client)

// WithTimeout sets the whole-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *client) {
		c.rest.SetTimeout(d)
	}
}

// WithEndpoint overrides the environment's endpoint URL.
func WithEndpoint(url string) Option {
	return func(c *client) {
		c.endpoint = url
	}
}

// WithInsecureSkipVerify disables TLS certificate verification. The
// test gateway has served expired certificates more than once.
func WithInsecureSkipVerify() Option {
	return func(c *client) {
		c.rest.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
}

func New(environment efris.Environment, opts ...Option) Client {
	c := &client{
		rest:     resty.New().SetTimeout(60 * time.Second),
		endpoint: environment.BaseURL(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *client) Endpoint() string {
	return c.endpoint
}

func (c *client) PostEnvelope(envelope *model.Envelope) (*model.Envelope, error) {

	r := c.rest.R()
	if util.HttpTraceEnabled() {
		r.EnableTrace()
	}

	result := &model.Envelope{}
	resp, err := r.
		SetHeader("Content-Type", "application/json").
		SetBody(envelope).
		SetResult(result).
		Post(c.endpoint)

	printTraceInfo(c, err, resp)
	if err := checkError(resp, err); err != nil {
		return nil, err
	}
	return result, nil
}

func checkError(resp *resty.Response, err error) error {
	if err != nil {
		return &RequestError{Err: err}
	}
	if resp.IsError() {
		return &RequestError{
			StatusCode: resp.StatusCode(),
			Body:       resp.String(),
		}
	}
	return nil
}

func printTraceInfo(c *client, err error, resp *resty.Response) {

	if !util.HttpTraceEnabled() || resp == nil {
		return
	}

	fmt.Println("Response Info:")
	fmt.Println("  URL        :", c.endpoint)
	fmt.Println("  Error      :", err)
	fmt.Println("  Status Code:", resp.StatusCode())
	fmt.Println("  Status     :", resp.Status())
	fmt.Println("  Proto      :", resp.Proto())
	fmt.Println("  Time       :", resp.Time())
	fmt.Println("  Received At:", resp.ReceivedAt())
	fmt.Println("  Body       :\n", resp)
	fmt.Println()

	fmt.Println("Request Trace Info:")
	ti := resp.Request.TraceInfo()
	fmt.Println("  DNSLookup     :", ti.DNSLookup)
	fmt.Println("  ConnTime      :", ti.ConnTime)
	fmt.Println("  TCPConnTime   :", ti.TCPConnTime)
	fmt.Println("  TLSHandshake  :", ti.TLSHandshake)
	fmt.Println("  ServerTime    :", ti.ServerTime)
	fmt.Println("  ResponseTime  :", ti.ResponseTime)
	fmt.Println("  TotalTime     :", ti.TotalTime)
	fmt.Println("  IsConnReused  :", ti.IsConnReused)
	fmt.Println("  IsConnWasIdle :", ti.IsConnWasIdle)
	fmt.Println("  ConnIdleTime  :", ti.ConnIdleTime)
	fmt.Println("  RequestAttempt:", ti.RequestAttempt)
}
