package cloudinary

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// BaseURL is the Cloudinary API base URL. The cloud name is appended per
	// request.
	BaseURL = "https://api.cloudinary.com/v1_1"

	// maxListResults caps a single resource listing.
	maxListResults = 100
)

// Client is a minimal HTTP client for the Cloudinary upload and admin APIs.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cloudName  string
	apiKey     string
	apiSecret  string
	debug      bool
}

// NewClient constructs a new Cloudinary client with sane defaults.
func NewClient(cloudName, apiKey, apiSecret string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    BaseURL,
		cloudName:  cloudName,
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		debug:      os.Getenv("ENV") == "development",
	}
}

// sign generates a SHA-1 hex digest per Cloudinary spec:
// sha1("k1=v1&k2=v2" + apiSecret) with keys sorted alphabetically.
func (c *Client) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + c.apiSecret))
	return hex.EncodeToString(sum[:])
}

// UploadSignature authorizes one direct browser upload.
type UploadSignature struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
	APIKey    string `json:"apiKey"`
	CloudName string `json:"cloudName"`
	PublicID  string `json:"publicId,omitempty"`
}

// SignUpload produces the signature the frontend needs to upload directly to
// Cloudinary. The API secret never leaves the server.
func (c *Client) SignUpload(publicID string) UploadSignature {
	ts := time.Now().Unix()

	params := map[string]string{
		"timestamp": fmt.Sprintf("%d", ts),
	}
	if publicID != "" {
		params["public_id"] = publicID
	}

	return UploadSignature{
		Signature: c.sign(params),
		Timestamp: ts,
		APIKey:    c.apiKey,
		CloudName: c.cloudName,
		PublicID:  publicID,
	}
}

type destroyResponse struct {
	Result string `json:"result"`
}

// Destroy deletes an image by public ID. Returns true only when Cloudinary
// confirms the deletion.
func (c *Client) Destroy(ctx context.Context, publicID string) (bool, error) {
	ts := time.Now().Unix()
	params := map[string]string{
		"public_id": publicID,
		"timestamp": fmt.Sprintf("%d", ts),
	}

	form := url.Values{}
	form.Set("public_id", publicID)
	form.Set("timestamp", fmt.Sprintf("%d", ts))
	form.Set("api_key", c.apiKey)
	form.Set("signature", c.sign(params))

	endpoint := fmt.Sprintf("%s/%s/image/destroy", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var result destroyResponse
	if err := c.do(req, &result); err != nil {
		return false, err
	}
	return result.Result == "ok", nil
}

// Image is one hosted image as reported by the admin API.
type Image struct {
	PublicID  string `json:"public_id"`
	Format    string `json:"format"`
	Bytes     int64  `json:"bytes"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	SecureURL string `json:"secure_url"`
	CreatedAt string `json:"created_at"`
}

type listResponse struct {
	Resources []Image `json:"resources"`
}

// ListImages returns up to 100 hosted images, newest first.
func (c *Client) ListImages(ctx context.Context) ([]Image, error) {
	endpoint := fmt.Sprintf("%s/%s/resources/image?max_results=%d&direction=desc",
		c.baseURL, c.cloudName, maxListResults)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	// Admin API uses basic auth rather than request signing.
	req.SetBasicAuth(c.apiKey, c.apiSecret)

	var result listResponse
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return result.Resources, nil
}

// do executes the request and decodes the JSON response into result.
func (c *Client) do(req *http.Request, result any) error {
	if c.debug {
		log.Debug().
			Str("method", req.Method).
			Str("url", req.URL.String()).
			Msg("[CLOUDINARY] Outgoing request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("url", req.URL.String()).
			Int("status_code", resp.StatusCode).
			RawJSON("response", respBody).
			Msg("[CLOUDINARY] Incoming response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("cloudinary returned status %d: %s", resp.StatusCode, string(respBody))
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
