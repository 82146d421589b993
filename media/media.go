// Package media talks to the external object store holding logos and
// covers. Assets are addressed by a folder plus a slug-derived public id;
// re-uploading the same key replaces the asset.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Placeholder is the media reference used when no asset could be stored.
const Placeholder = "placeholder"

// Uploader stores an image and returns a stable reference string. The
// ingestion pipeline treats every call as best-effort: a failure degrades
// to a fallback reference, never to an aborted record.
type Uploader interface {
	Upload(ctx context.Context, localPath, folder, publicID string) (string, error)
	UploadFromURL(ctx context.Context, srcURL, folder, publicID string) (string, error)
}

// Client uploads assets to an HTTP media store (a Cloudinary-style
// upload endpoint taking a multipart file plus a public_id).
type Client struct {
	UploadURL  string
	APIKey     string
	HTTPClient *http.Client
}

func NewClient(uploadURL, apiKey string) *Client {
	return &Client{
		UploadURL:  uploadURL,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type uploadResponse struct {
	PublicID string `json:"public_id"`
}

// Upload sends a local file to the store under folder/publicID and
// returns the reference the store assigned.
func (c *Client) Upload(ctx context.Context, localPath, folder, publicID string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("media: open %s: %w", localPath, err)
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filepath.Base(localPath))
	if err != nil {
		return "", fmt.Errorf("media: build form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("media: read file: %w", err)
	}
	_ = writer.WriteField("public_id", folder+"/"+publicID)
	_ = writer.WriteField("folder", folder)
	_ = writer.WriteField("overwrite", "true")
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("media: finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.UploadURL, &body)
	if err != nil {
		return "", fmt.Errorf("media: build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("media: upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("media: upload returned status %d", resp.StatusCode)
	}

	var ur uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&ur); err != nil {
		return "", fmt.Errorf("media: decode upload response: %w", err)
	}
	if ur.PublicID == "" {
		return "", fmt.Errorf("media: upload response missing public_id")
	}
	return ur.PublicID, nil
}

// UploadFromURL downloads a remote image to a temp file and uploads it.
// The temp file is always removed.
func (c *Client) UploadFromURL(ctx context.Context, srcURL, folder, publicID string) (string, error) {
	if srcURL == "" {
		return "", fmt.Errorf("media: empty source url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srcURL, nil)
	if err != nil {
		return "", fmt.Errorf("media: build download request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("media: download %s: %w", srcURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("media: download %s returned status %d", srcURL, resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", "gamecritic-media-*")
	if err != nil {
		return "", fmt.Errorf("media: temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("media: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("media: close temp file: %w", err)
	}

	return c.Upload(ctx, tmpPath, folder, publicID)
}
