// pkg/advice/client/http_client.go

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"go.uber.org/zap"

	"agentrix/entities"
)

type Options struct {
	Endpoint string
	// Timeout bounds the whole exchange. Zero means no timeout.
	Timeout time.Duration
	// SendPhoto switches to a multipart body when a leaf photo is present.
	SendPhoto  bool
	HTTPClient *http.Client
	Logger     *zap.Logger
}

type httpClient struct {
	endpoint  string
	sendPhoto bool
	httpc     *http.Client
	log       *zap.Logger
}

func NewHTTP(opts Options) Client {
	httpc := opts.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Timeout: opts.Timeout}
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &httpClient{endpoint: opts.Endpoint, sendPhoto: opts.SendPhoto, httpc: httpc, log: log}
}

func (c *httpClient) GetAdvice(ctx context.Context, req entities.AdviceRequest, photo *entities.LeafPhoto) (*entities.Advice, error) {
	body, contentType, err := c.encode(req, photo)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("encode request: %w", err)}
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")

	c.log.Debug("posting advice request",
		zap.String("endpoint", c.endpoint),
		zap.String("gps", req.GPS),
		zap.String("soil_type", req.SoilType),
		zap.String("content_type", contentType))

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	// The body is decoded before the status is looked at: a non-JSON error
	// page counts as unreachable, not as a server-reported failure.
	var out struct {
		Advice *entities.Advice `json:"advice"`
		Detail json.RawMessage  `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ServerError{Status: resp.StatusCode, Detail: detailText(out.Detail)}
	}
	if out.Advice == nil {
		return nil, &TransportError{Err: errors.New("response carries no advice")}
	}
	return out.Advice, nil
}

func (c *httpClient) encode(req entities.AdviceRequest, photo *entities.LeafPhoto) (io.Reader, string, error) {
	if !c.sendPhoto || photo == nil {
		b, err := json.Marshal(req)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(b), "application/json", nil
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, kv := range [][2]string{{"gps", req.GPS}, {"soil_type", req.SoilType}, {"lang", req.Lang}} {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", err
		}
	}
	ct := photo.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="leaf_photo"; filename=%q`, photo.Filename))
	h.Set("Content-Type", ct)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(photo.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// detailText turns the server's detail value into display text.
// Falsy values (absent, null, "", false, 0) yield "".
func detailText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	switch d := v.(type) {
	case nil:
		return ""
	case string:
		return d
	case bool:
		if !d {
			return ""
		}
	case float64:
		if d == 0 {
			return ""
		}
	}
	return string(raw)
}
