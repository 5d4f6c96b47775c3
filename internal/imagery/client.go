package imagery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	ghttp "github.com/geofetch/geofetch/internal/http"
)

// ErrNoImage is returned when the service has no imagery matching the
// expression's filters.
var ErrNoImage = errors.New("imagery: no image found for filters")

// Resolver turns an image expression into a download URL. Implemented
// by Client; tests substitute instrumented fakes.
type Resolver interface {
	DownloadURL(ctx context.Context, img Image, req DownloadRequest) (string, error)
}

// DownloadRequest describes the concrete raster to materialize from an
// expression. Region is a ring of (x, y) corner coordinates in the
// request CRS, closed implicitly; intermediate downloads are always
// rectangular.
type DownloadRequest struct {
	Region [][2]float64 `json:"region"`
	Scale  int          `json:"scale"`
	CRS    string       `json:"crs"`
	Format string       `json:"format"`
}

// Options configures the imagery client.
type Options struct {
	// BaseURL is the service endpoint, without a trailing slash.
	BaseURL string

	// Token authenticates requests. See LoadToken.
	Token string

	// HTTP overrides the transfer client. Default: ghttp.DefaultOptions.
	HTTP *ghttp.Client
}

// Client resolves image expressions against the remote service.
type Client struct {
	base  string
	token string
	http  *ghttp.Client
}

// NewClient creates a client for the service at opts.BaseURL.
func NewClient(opts Options) *Client {
	hc := opts.HTTP
	if hc == nil {
		hc = ghttp.NewClient(ghttp.DefaultOptions())
	}
	return &Client{
		base:  strings.TrimRight(opts.BaseURL, "/"),
		token: opts.Token,
		http:  hc,
	}
}

type downloadResponse struct {
	URL string `json:"url"`
}

// DownloadURL submits the expression and request and returns a
// time-limited download URL. A 404 from the service means no imagery
// matched the expression's filters.
func (c *Client) DownloadURL(ctx context.Context, img Image, req DownloadRequest) (string, error) {
	if req.Format == "" {
		req.Format = "GeoTIFF"
	}

	payload := struct {
		Expression expr `json:"expression"`
		DownloadRequest
	}{Expression: img.expr, DownloadRequest: req}

	var resp downloadResponse
	err := c.http.PostJSON(ctx, c.base+"/v1/download", c.token, payload, &resp)
	if errors.Is(err, ghttp.ErrNotFound) {
		return "", ErrNoImage
	}
	if err != nil {
		return "", fmt.Errorf("resolve download url: %w", err)
	}
	if resp.URL == "" {
		return "", fmt.Errorf("resolve download url: empty url in response")
	}
	return resp.URL, nil
}

// LoadToken reads a service token from a credentials file. The file is
// either JSON with a "token" field or the bare token string.
func LoadToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read credentials: %w", err)
	}

	var creds struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(data, &creds); err == nil && creds.Token != "" {
		return creds.Token, nil
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("credentials file %s is empty", path)
	}
	return token, nil
}
