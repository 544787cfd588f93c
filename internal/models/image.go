package models

import "time"

// Image is a single gallery document. ImageData holds the payload as
// base64 text so the record is self-contained and transportable as JSON.
type Image struct {
	ID          string    `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	ImageData   string    `json:"image_data"`
	UploadedAt  time.Time `json:"uploaded_at"`
}
