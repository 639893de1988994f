package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ImageHostClient talks to the external image host that serves receipts and
// KYC document scans. The host exposes a plain HTTP PUT/GET API keyed by file
// name.
type ImageHostClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewImageHostClient(baseURL string, apiKey string) *ImageHostClient {
	if baseURL == "" {
		panic("image host base URL is required")
	}
	return &ImageHostClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout:   time.Second * 10,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (c *ImageHostClient) StoreDocument(ctx context.Context, name string, content string) (string, error) {
	fileURL := c.baseURL + "/documents/" + url.PathEscape(name)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, fileURL, strings.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("could not create upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "text/html")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("could not upload document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		// the file is already there, upload was retried
		return fileURL, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("document upload failed with status %d: %s", resp.StatusCode, string(body))
	}

	return fileURL, nil
}
