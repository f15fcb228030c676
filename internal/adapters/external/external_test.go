package external

import (
	"context"
	"encoding/json"
	"net"
	"sync"
	"testing"
	"time"

	"campusvote/internal/config"
	"campusvote/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

// capture is the last request an in-memory upstream saw
type capture struct {
	mu      sync.Mutex
	path    string
	headers map[string]string
	body    []byte
}

func (c *capture) record(ctx *fasthttp.RequestCtx, keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.path = string(ctx.Path())
	c.body = append([]byte(nil), ctx.PostBody()...)
	c.headers = make(map[string]string, len(keys))
	for _, k := range keys {
		c.headers[k] = string(ctx.Request.Header.Peek(k))
	}
}

// upstream serves handler over an in-memory listener and points h at it
func upstream(t *testing.T, h *httpClient, handler fasthttp.RequestHandler) {
	t.Helper()

	ln := fasthttputil.NewInmemoryListener()
	server := &fasthttp.Server{Handler: handler}
	go func() { _ = server.Serve(ln) }()
	t.Cleanup(func() { _ = ln.Close() })

	h.client.Dial = func(string) (net.Conn, error) { return ln.Dial() }
}

func jsonReply(ctx *fasthttp.RequestCtx, status int, v interface{}) {
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	body, _ := json.Marshal(v)
	ctx.SetBody(body)
}

func TestPushClient_Outcomes(t *testing.T) {
	client := NewPushClient(config.PushConfig{GatewayURL: "http://push.test/send", AccessToken: "tok"}, time.Second)
	var seen capture
	upstream(t, client.http, func(ctx *fasthttp.RequestCtx) {
		seen.record(ctx, "Authorization")
		jsonReply(ctx, 200, map[string]interface{}{
			"data": []map[string]interface{}{
				{"status": "ok", "id": "a"},
				{"status": "error", "message": "not registered", "details": map[string]string{"error": "DeviceNotRegistered"}},
			},
		})
	})

	outcomes, err := client.SendBatch(context.Background(), []string{"dev-1", "dev-2"}, domain.PushMessage{Title: "Voting is open", Body: "go"})
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.True(t, outcomes[0].OK)
	assert.False(t, outcomes[1].OK)
	assert.Equal(t, "DeviceNotRegistered", outcomes[1].Reason)

	assert.Equal(t, "/send", seen.path)
	assert.Equal(t, "Bearer tok", seen.headers["Authorization"])

	var sent []pushMessage
	require.NoError(t, json.Unmarshal(seen.body, &sent))
	require.Len(t, sent, 2)
	assert.Equal(t, "dev-2", sent[1].To)
	assert.Equal(t, "Voting is open", sent[1].Title)
}

func TestPushClient_TicketCountMismatch(t *testing.T) {
	client := NewPushClient(config.PushConfig{GatewayURL: "http://push.test/send"}, time.Second)
	upstream(t, client.http, func(ctx *fasthttp.RequestCtx) {
		jsonReply(ctx, 200, map[string]interface{}{"data": []map[string]string{{"status": "ok"}}})
	})

	_, err := client.SendBatch(context.Background(), []string{"a", "b"}, domain.PushMessage{})
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestPushClient_ServerError(t *testing.T) {
	client := NewPushClient(config.PushConfig{GatewayURL: "http://push.test/send"}, time.Second)
	upstream(t, client.http, func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(503)
		ctx.SetBodyString("overloaded")
	})

	_, err := client.SendBatch(context.Background(), []string{"a"}, domain.PushMessage{})
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.Equal(t, domain.KindTransient, domain.KindOf(err))
	assert.Contains(t, err.Error(), "503")
}

func TestFaceClient_Compare(t *testing.T) {
	client := NewFaceClient(config.BiometricConfig{ServiceURL: "http://face.test/compare", APIKey: "k-1"}, time.Second)
	var seen capture
	upstream(t, client.http, func(ctx *fasthttp.RequestCtx) {
		seen.record(ctx, "X-API-Key")
		jsonReply(ctx, 200, map[string]interface{}{
			"face_matches": []map[string]float64{{"similarity": 97.1}, {"similarity": 40.2}},
		})
	})

	matches, err := client.Compare(context.Background(), []byte("ref"), []byte("probe"))
	require.NoError(t, err)
	assert.Equal(t, []domain.FaceCandidate{{Similarity: 97.1}, {Similarity: 40.2}}, matches)
	assert.Equal(t, "k-1", seen.headers["X-API-Key"])

	var sent compareRequest
	require.NoError(t, json.Unmarshal(seen.body, &sent))
	assert.Equal(t, "cmVm", sent.SourceImage)
	assert.Equal(t, "cHJvYmU=", sent.TargetImage)
	assert.Zero(t, sent.SimilarityThreshold)
}

func TestFaceClient_NoFaces(t *testing.T) {
	client := NewFaceClient(config.BiometricConfig{ServiceURL: "http://face.test/compare"}, time.Second)
	upstream(t, client.http, func(ctx *fasthttp.RequestCtx) {
		jsonReply(ctx, 200, map[string]interface{}{"face_matches": []interface{}{}})
	})

	matches, err := client.Compare(context.Background(), []byte("ref"), []byte("probe"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFaceClient_Timeout(t *testing.T) {
	client := NewFaceClient(config.BiometricConfig{ServiceURL: "http://face.test/compare"}, 100*time.Millisecond)
	upstream(t, client.http, func(ctx *fasthttp.RequestCtx) {
		time.Sleep(500 * time.Millisecond)
		jsonReply(ctx, 200, map[string]interface{}{})
	})

	_, err := client.Compare(context.Background(), []byte("ref"), []byte("probe"))
	assert.ErrorIs(t, err, domain.ErrUpstreamTimeout)
}

func TestPostJSON_ExpiredContext(t *testing.T) {
	client := NewFaceClient(config.BiometricConfig{ServiceURL: "http://face.test/compare"}, time.Second)
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := client.Compare(ctx, []byte("ref"), []byte("probe"))
	assert.ErrorIs(t, err, domain.ErrUpstreamTimeout)
}

func TestMailClient_SendCode(t *testing.T) {
	client := NewMailClient(config.MailConfig{RelayURL: "http://mail.test/send", APIKey: "m-1", Sender: "vote@campus.test"}, time.Second)
	var seen capture
	upstream(t, client.http, func(ctx *fasthttp.RequestCtx) {
		seen.record(ctx, "X-API-Key")
		ctx.SetStatusCode(202)
	})

	require.NoError(t, client.SendCode(context.Background(), "ada@campus.test", "482913"))

	var sent mailRequest
	require.NoError(t, json.Unmarshal(seen.body, &sent))
	assert.Equal(t, "vote@campus.test", sent.From)
	assert.Equal(t, "ada@campus.test", sent.To)
	assert.Contains(t, sent.Text, "482913")
	assert.Equal(t, "m-1", seen.headers["X-API-Key"])
}

func TestLogSender(t *testing.T) {
	assert.NoError(t, LogSender{}.SendCode(context.Background(), "ada@campus.test", "123456"))
}
