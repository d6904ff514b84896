// Package netx holds small HTTP helpers shared by the command line tools.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// UploadImage PUTs the image in body to a presigned object storage URL.
// Anything but 200 is an error carrying the storage response.
func UploadImage(ctx context.Context, client *http.Client, url, contentType string, body io.Reader) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("upload failed: %s; body: %s", resp.Status, string(b))
	}
	return nil
}
