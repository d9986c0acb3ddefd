package dto

// UploadAttachmentRequest represents the request to attach a photo to a
// job card. The file bytes arrive as multipart form data.
type UploadAttachmentRequest struct {
	WorkshopID  uint   `json:"-"`
	JobCardUUID string `json:"-" validate:"required,uuid4"`
	Filename    string `json:"-" validate:"required,max=255"`
	Data        []byte `json:"-"`
}

// AttachmentDTO represents an attachment in responses
type AttachmentDTO struct {
	ID               uint    `json:"id"`
	UUID             string  `json:"uuid"`
	JobCardID        uint    `json:"job_card_id"`
	OriginalFilename string  `json:"original_filename"`
	SizeBytes        int64   `json:"size_bytes"`
	MimeType         string  `json:"mime_type"`
	HasThumbnail     bool    `json:"has_thumbnail"`
	ThumbnailPath    *string `json:"thumbnail_path,omitempty"`
	CreatedAt        string  `json:"created_at"`
}

// ListAttachmentsResponse represents a job card's attachments
type ListAttachmentsResponse struct {
	Items []AttachmentDTO `json:"items"`
}
