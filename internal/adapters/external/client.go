package external

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"campusvote/internal/core/domain"

	"github.com/valyala/fasthttp"
)

// httpClient is the shared outbound JSON caller
type httpClient struct {
	client  *fasthttp.Client
	timeout time.Duration
}

func newHTTPClient(name string, timeout time.Duration) *httpClient {
	return &httpClient{
		client: &fasthttp.Client{
			Name:                name,
			MaxConnsPerHost:     64,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: time.Minute,
		},
		timeout: timeout,
	}
}

// postJSON sends in as JSON and decodes a 2xx body into out.
// A timeout surfaces as UPSTREAM_TIMEOUT, any other failure as UPSTREAM_ERROR.
func (h *httpClient) postJSON(ctx context.Context, url string, headers map[string]string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	req.SetBodyRaw(body)

	timeout := h.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return domain.Wrap(domain.ErrUpstreamTimeout, ctx.Err())
	}

	if err := h.client.DoTimeout(req, resp, timeout); err != nil {
		if errors.Is(err, fasthttp.ErrTimeout) {
			return domain.Wrap(domain.ErrUpstreamTimeout, err)
		}
		return domain.Wrap(domain.ErrUpstream, err)
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		return domain.Wrap(domain.ErrUpstream, fmt.Errorf("%s responded %d: %s", url, status, truncate(resp.Body(), 200)))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return domain.Wrap(domain.ErrUpstream, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
