// Package storage forwards file uploads to the hosted file storage
// service and returns the resulting public URL.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/alaaMelook/Nature-Hug-sub001/pkg/config"
)

type Uploader struct {
	uploadURL  string
	apiKey     string
	publicURL  string
	httpClient *http.Client
}

func NewUploader(cfg *config.StorageConfig) *Uploader {
	return &Uploader{
		uploadURL: cfg.UploadURL,
		apiKey:    cfg.APIKey,
		publicURL: cfg.PublicURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Upload streams one file as multipart form data and returns its public
// URL. No retry; callers surface failures directly.
func (u *Uploader) Upload(ctx context.Context, filename string, content io.Reader) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("failed to buffer upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.uploadURL, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+u.apiKey)

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("storage service returned status %d", resp.StatusCode)
	}

	var result struct {
		URL  string `json:"url"`
		Path string `json:"path"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	if result.URL != "" {
		return result.URL, nil
	}
	return u.publicURL + "/" + result.Path, nil
}
