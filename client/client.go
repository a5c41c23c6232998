package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/Yamashou/gqlbuilder/graphqljson"
)

type Client struct {
	client   *http.Client
	header   http.Header
	endpoint string
}

// NewClient creates a new http client wrapper.
func NewClient(endpoint string, options ...Option) *Client {
	client := &Client{
		endpoint: endpoint,
		client:   http.DefaultClient,
	}
	for _, option := range options {
		option(client)
	}

	return client
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.client = httpClient
	}
}

func WithHTTPHeader(header http.Header) Option {
	return func(c *Client) {
		c.header = header
	}
}

// Request is the JSON body of a GraphQL POST request.
type Request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   jsontext.Value `json:"data"`
	Errors gqlerror.List  `json:"errors"`
}

// ErrorResponse carries the errors of a response that reached the GraphQL
// layer, or the status of one that did not.
type ErrorResponse struct {
	StatusCode int
	Body       string
	GqlErrors  gqlerror.List
}

func (e *ErrorResponse) Error() string {
	if len(e.GqlErrors) > 0 {
		return fmt.Sprintf("graphql error: %s", e.GqlErrors.Error())
	}
	return fmt.Sprintf("http error: status %d: %s", e.StatusCode, e.Body)
}

// Post sends the operation and decodes the data of the response into out,
// which may be nil. Options apply to this request only.
func (c *Client) Post(ctx context.Context, operationName, query string, variables map[string]any, out any, options ...Option) error {
	client := *c
	for _, option := range options {
		option(&client)
	}

	req, err := client.newRequest(ctx, operationName, query, variables)
	if err != nil {
		return fmt.Errorf("failed to create post request: %w", err)
	}

	resp, err := client.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return parseResponse(resp, out)
}

func (c *Client) newRequest(ctx context.Context, operationName, query string, variables map[string]any) (*http.Request, error) {
	body, err := json.Marshal(Request{
		Query:         query,
		OperationName: operationName,
		Variables:     variables,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	for key, values := range c.header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Accept", "application/json")

	return req, nil
}

func parseResponse(resp *http.Response, out any) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	var res response
	decodeErr := json.Unmarshal(body, &res)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		errResp := &ErrorResponse{StatusCode: resp.StatusCode, Body: string(body)}
		if decodeErr == nil {
			errResp.GqlErrors = res.Errors
		}
		return errResp
	}
	if decodeErr != nil {
		return fmt.Errorf("failed to decode response: %w", decodeErr)
	}
	if len(res.Errors) > 0 {
		return &ErrorResponse{StatusCode: resp.StatusCode, GqlErrors: res.Errors}
	}

	if out == nil || len(res.Data) == 0 || res.Data.Kind() == 'n' {
		return nil
	}
	if err := graphqljson.UnmarshalData(res.Data, out); err != nil {
		return fmt.Errorf("failed to decode data into response: %w", err)
	}
	return nil
}
