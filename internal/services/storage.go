package services

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ImgurResponse is the Imgur API response envelope.
type ImgurResponse struct {
	Data struct {
		ID         string `json:"id"`
		Link       string `json:"link"`
		DeleteHash string `json:"deletehash"`
		Type       string `json:"type"`
	} `json:"data"`
	Success bool `json:"success"`
	Status  int  `json:"status"`
}

// AttachmentResult is what a successful upload hands back to the caller.
type AttachmentResult struct {
	URL  string `json:"url"`  // publicly retrievable link
	Name string `json:"name"` // object name assigned to the upload
}

// UploadToImgur pushes an attachment to Imgur and returns its public URL.
func UploadToImgur(file multipart.File, header *multipart.FileHeader) (*AttachmentResult, error) {
	clientID := os.Getenv("IMGUR_CLIENT_ID")
	if clientID == "" {
		return nil, fmt.Errorf("IMGUR_CLIENT_ID not configured")
	}

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	base64Image := base64.StdEncoding.EncodeToString(fileBytes)

	var requestBody bytes.Buffer
	writer := multipart.NewWriter(&requestBody)

	if err := writer.WriteField("image", base64Image); err != nil {
		return nil, fmt.Errorf("build request body: %w", err)
	}
	if err := writer.WriteField("type", "base64"); err != nil {
		return nil, fmt.Errorf("build request body: %w", err)
	}

	// Object name: uuid plus the original extension.
	ext := strings.ToLower(filepath.Ext(header.Filename))
	name := uuid.NewString() + ext
	if err := writer.WriteField("name", name); err != nil {
		return nil, fmt.Errorf("build request body: %w", err)
	}

	writer.Close()

	req, err := http.NewRequest("POST", "https://api.imgur.com/3/image", &requestBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Client-ID "+clientID)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var imgurResp ImgurResponse
	if err := json.Unmarshal(body, &imgurResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	if !imgurResp.Success {
		return nil, fmt.Errorf("imgur upload failed: status %d", imgurResp.Status)
	}

	return &AttachmentResult{
		URL:  imgurResp.Data.Link,
		Name: name,
	}, nil
}

// UploadAttachment is the generic upload entry point (backend can be swapped).
// Currently Imgur.
func UploadAttachment(file multipart.File, header *multipart.FileHeader) (*AttachmentResult, error) {
	return UploadToImgur(file, header)
}
