package gateway

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	openai "github.com/sashabaranov/go-openai"
	"resty.dev/v3"

	"fitcoach/services/coach-api/internal/infrastructure/logger"
	"fitcoach/services/coach-api/internal/infrastructure/metrics"
	"fitcoach/services/coach-api/internal/utils/platformerrors"
)

const (
	dataPrefix = "data: "
	doneMarker = "[DONE]"

	channelBufferSize    = 100
	errorBufferSize      = 10
	scannerInitialBuffer = 12 * 1024
	scannerMaxBuffer     = 10 * 1024 * 1024
)

// Fixed user-safe messages. Provider error payloads are logged but never
// surfaced to the caller.
const (
	msgRateLimited    = "the coach is receiving too many requests, please retry in a moment"
	msgQuotaExhausted = "the coaching quota is exhausted, please retry later"
	msgUpstream       = "the coach is temporarily unavailable, please try again"
)

// Client is the sole network boundary to the LLM provider. Negotiate is the
// non-streaming probe used during tool negotiation; StreamFinal re-issues
// the final transcript with streaming enabled and relays the token stream
// unmodified.
type Client struct {
	client  *resty.Client
	baseURL string
	apiKey  string
	timeout time.Duration
}

func NewClient(client *resty.Client, baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		client:  client,
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  apiKey,
		timeout: timeout,
	}
}

// Negotiate performs one non-streaming chat completion call.
func (c *Client) Negotiate(ctx context.Context, request openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error) {
	request.Stream = false

	start := time.Now()
	var body openai.ChatCompletionResponse
	resp, err := c.prepareRequest(ctx).
		SetBody(request).
		SetResult(&body).
		Post(c.baseURL + "/chat/completions")

	metrics.GatewayRequestDuration.WithLabelValues("negotiate").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues("negotiate", "transport_error").Inc()
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal, msgUpstream, err, "")
	}
	metrics.GatewayRequestsTotal.WithLabelValues("negotiate", strconv.Itoa(resp.StatusCode())).Inc()
	if resp.IsError() {
		return nil, c.classify(ctx, resp)
	}
	return &body, nil
}

// StreamFinal issues the streaming call and pipes the provider's SSE lines
// to the gin writer as they arrive. beforeStream runs after the provider
// answered 2xx and before the first body byte, so response headers can
// still be set. The relay stops promptly when the caller disconnects.
func (c *Client) StreamFinal(reqCtx *gin.Context, request openai.ChatCompletionRequest, beforeStream func()) error {
	request.Stream = true

	ctx, cancel := context.WithTimeout(reqCtx.Request.Context(), c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.prepareRequest(ctx).
		SetBody(request).
		SetDoNotParseResponse(true).
		SetHeader("Accept-Encoding", "identity").
		Post(c.baseURL + "/chat/completions")
	if err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues("stream", "transport_error").Inc()
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal, msgUpstream, err, "")
	}
	metrics.GatewayRequestsTotal.WithLabelValues("stream", strconv.Itoa(resp.StatusCode())).Inc()
	if resp.IsError() {
		return c.classify(ctx, resp)
	}
	if resp.RawResponse == nil || resp.RawResponse.Body == nil {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal, msgUpstream, nil, "")
	}

	if beforeStream != nil {
		beforeStream()
	}

	dataChan := make(chan string, channelBufferSize)
	errChan := make(chan error, errorBufferSize)

	var wg sync.WaitGroup
	wg.Add(1)
	go c.readStream(ctx, resp.RawResponse.Body, dataChan, errChan, &wg)

	defer func() {
		cancel()
		wg.Wait()
		metrics.GatewayRequestDuration.WithLabelValues("stream").Observe(time.Since(start).Seconds())
	}()

	for {
		select {
		case line, ok := <-dataChan:
			if !ok {
				return nil
			}
			if err := writeSSELine(reqCtx, line); err != nil {
				return platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "unable to write SSE line")
			}
			if data, found := strings.CutPrefix(line, dataPrefix); found && data == doneMarker {
				return nil
			}

		case err, ok := <-errChan:
			if ok && err != nil {
				return platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "streaming error")
			}

		case <-reqCtx.Request.Context().Done():
			return platformerrors.AsError(reqCtx.Request.Context(), platformerrors.LayerInfrastructure,
				reqCtx.Request.Context().Err(), "client disconnected during stream")

		case <-ctx.Done():
			return platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, ctx.Err(), "stream timed out")
		}
	}
}

// readStream feeds provider SSE lines into dataChan until EOF or
// cancellation, then closes the channel.
func (c *Client) readStream(ctx context.Context, body io.ReadCloser, dataChan chan<- string, errChan chan<- error, wg *sync.WaitGroup) {
	defer wg.Done()
	defer close(dataChan)
	defer func() {
		if err := body.Close(); err != nil {
			log := logger.GetLogger()
			log.Error().Err(err).Msg("unable to close provider response body")
		}
	}()

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, scannerInitialBuffer), scannerMaxBuffer)

	for scanner.Scan() {
		select {
		case dataChan <- scanner.Text():
		case <-ctx.Done():
			return
		}
	}
	if err := scanner.Err(); err != nil {
		select {
		case errChan <- err:
		default:
		}
	}
}

func (c *Client) prepareRequest(ctx context.Context) *resty.Request {
	req := c.client.R().SetContext(ctx).SetHeader("Content-Type", "application/json")
	if strings.TrimSpace(c.apiKey) != "" {
		req.SetHeader("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	}
	return req
}

// classify maps a provider failure onto the service's own error taxonomy.
// The raw body is logged for diagnosis and never included in the returned
// error.
func (c *Client) classify(ctx context.Context, resp *resty.Response) *platformerrors.PlatformError {
	rawBody := strings.TrimSpace(resp.String())
	if rawBody == "" && resp.RawResponse != nil && resp.RawResponse.Body != nil {
		defer resp.RawResponse.Body.Close()
		if body, err := io.ReadAll(resp.RawResponse.Body); err == nil {
			rawBody = strings.TrimSpace(string(body))
		}
	}

	log := logger.GetLogger()
	log.Warn().
		Int("status", resp.StatusCode()).
		Str("body", rawBody).
		Msg("provider returned an error")

	switch resp.StatusCode() {
	case http.StatusTooManyRequests:
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeRateLimited, msgRateLimited, nil, "")
	case http.StatusPaymentRequired:
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeQuotaExhausted, msgQuotaExhausted, nil, "")
	default:
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal, msgUpstream, nil, "")
	}
}

func writeSSELine(reqCtx *gin.Context, line string) error {
	if _, err := reqCtx.Writer.Write([]byte(line + "\n")); err != nil {
		return err
	}
	reqCtx.Writer.Flush()
	return nil
}
