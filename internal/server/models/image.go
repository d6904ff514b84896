package models

import "time"

// ImageUpload instructs the client to PUT an image to UploadURL, after which
// ImageURL can be used as a ring's image.
type ImageUpload struct {
	Key       string    `json:"key"`
	UploadURL string    `json:"uploadUrl"`
	ImageURL  string    `json:"imageUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}
