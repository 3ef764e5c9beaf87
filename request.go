package cloudapps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/cd1zz/defender-for-cloud-apps-api-client/internal/api"
)

// doList posts a list envelope and decodes one page of records.
func doList[T any](ctx context.Context, t *api.Transport, path string, body any) ([]T, error) {
	resp, err := t.Do(ctx, &api.Request{
		Method: http.MethodPost,
		Path:   path,
		Body:   body,
	})
	if err != nil {
		return nil, wrapTransportError(ctx, err)
	}
	if err := checkResponse(resp); err != nil {
		return nil, err
	}
	return decodeList[T](resp.Body)
}

// doGet fetches a detail endpoint and decodes the resource.
func doGet[T any](ctx context.Context, t *api.Transport, path string, query url.Values) (*T, error) {
	resp, err := t.Do(ctx, &api.Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  query,
	})
	if err != nil {
		return nil, wrapTransportError(ctx, err)
	}
	if err := checkResponse(resp); err != nil {
		return nil, err
	}
	return decodeResource[T](resp.Body)
}

// doResult executes a mutating request and decodes the returned resource.
func doResult[T any](ctx context.Context, t *api.Transport, method, path string, body any) (*T, error) {
	resp, err := t.Do(ctx, &api.Request{
		Method: method,
		Path:   path,
		Body:   body,
	})
	if err != nil {
		return nil, wrapTransportError(ctx, err)
	}
	if err := checkResponse(resp); err != nil {
		return nil, err
	}
	return decodeResource[T](resp.Body)
}

// doAction executes a request whose response body the caller discards.
func doAction(ctx context.Context, t *api.Transport, method, path string, body any) error {
	resp, err := t.Do(ctx, &api.Request{
		Method: method,
		Path:   path,
		Body:   body,
	})
	if err != nil {
		return wrapTransportError(ctx, err)
	}
	return checkResponse(resp)
}

// doRaw fetches an endpoint whose response may not be JSON at all (e.g.
// the discovery block script) and returns the raw body.
func doRaw(ctx context.Context, t *api.Transport, path string, query url.Values) ([]byte, error) {
	resp, err := t.Do(ctx, &api.Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  query,
	})
	if err != nil {
		return nil, wrapTransportError(ctx, err)
	}
	if err := checkResponse(resp); err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// decodeList extracts the result array from a list response. List
// endpoints normally wrap it as {"data": [...]}, but discovery responses
// may be a bare array; both shapes are accepted. A 204 or empty body
// decodes to no items.
func decodeList[T any](body []byte) ([]T, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}

	if body[0] == '[' {
		var items []T
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("decoding response: %w", err)
		}
		return items, nil
	}

	var envelope struct {
		Data []T `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return envelope.Data, nil
}

// decodeResource decodes a detail response, which is either the raw
// resource object or wrapped as {"data": resource}.
func decodeResource[T any](body []byte) (*T, error) {
	out := new(T)

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return out, nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 && envelope.Data[0] == '{' {
		body = envelope.Data
	}

	if err := json.Unmarshal(body, out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return out, nil
}
