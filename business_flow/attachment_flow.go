package businessflow

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/jpeg"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pitline/pitline/app/dto"
	"github.com/pitline/pitline/config"
	"github.com/pitline/pitline/models"
	"github.com/pitline/pitline/repository"
	"github.com/pitline/pitline/utils"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
	"gorm.io/gorm"
)

// AttachmentFlow defines operations for job-card photo uploads.
type AttachmentFlow interface {
	UploadAttachment(ctx context.Context, request *dto.UploadAttachmentRequest, metadata *ClientMetadata) (*dto.AttachmentDTO, error)
	DownloadAttachment(ctx context.Context, workshopID uint, attachmentUUID string) (string, string, []byte, error)
	PreviewAttachment(ctx context.Context, workshopID uint, attachmentUUID string) (string, string, []byte, error)
	ListAttachments(ctx context.Context, workshopID uint, jobCardUUID string) (*dto.ListAttachmentsResponse, error)
}

// AttachmentFlowImpl implements AttachmentFlow.
type AttachmentFlowImpl struct {
	attachmentRepo repository.AttachmentRepository
	jobCardRepo    repository.JobCardRepository
	uploadsConfig  *config.UploadsConfig
	db             *gorm.DB
}

// NewAttachmentFlow creates a new attachment flow instance.
func NewAttachmentFlow(
	attachmentRepo repository.AttachmentRepository,
	jobCardRepo repository.JobCardRepository,
	uploadsConfig *config.UploadsConfig,
	db *gorm.DB,
) AttachmentFlow {
	return &AttachmentFlowImpl{
		attachmentRepo: attachmentRepo,
		jobCardRepo:    jobCardRepo,
		uploadsConfig:  uploadsConfig,
		db:             db,
	}
}

const thumbnailMaxDim = 512

var allowedAttachmentExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// UploadAttachment stores a photo for a job card and pre-renders its JPEG
// thumbnail. The file lands on disk first; the database row is written after,
// and the files are removed again if the row cannot be saved.
func (f *AttachmentFlowImpl) UploadAttachment(ctx context.Context, request *dto.UploadAttachmentRequest, metadata *ClientMetadata) (*dto.AttachmentDTO, error) {
	if len(request.Data) == 0 {
		return nil, NewBusinessError("INVALID_FILE", "file is required", nil)
	}
	if int64(len(request.Data)) > f.maxSizeBytes() {
		return nil, NewBusinessError("FILE_TOO_LARGE", "file size exceeds the upload limit", ErrFileTooLarge)
	}

	ext := strings.ToLower(filepath.Ext(request.Filename))
	if !allowedAttachmentExts[ext] {
		return nil, NewBusinessError("INVALID_FILE_TYPE", "allowed file types: jpg, jpeg, png, gif, webp", ErrUnsupportedFileType)
	}

	detected := http.DetectContentType(request.Data)
	if !strings.HasPrefix(detected, "image/") {
		return nil, NewBusinessError("INVALID_FILE_TYPE", "file content is not an image", ErrUnsupportedFileType)
	}

	jobCard, err := f.jobCardRepo.ByUUID(ctx, request.JobCardUUID)
	if err != nil {
		return nil, NewBusinessError("ATTACHMENT_UPLOAD_FAILED", "Attachment upload failed", err)
	}
	if jobCard == nil || jobCard.WorkshopID != request.WorkshopID {
		return nil, NewBusinessError("ATTACHMENT_UPLOAD_FAILED", "Attachment upload failed", ErrJobCardNotFound)
	}

	storedPath, thumbPath, err := f.saveToDisk(request.Data, ext)
	if err != nil {
		return nil, err
	}

	attachment := models.Attachment{
		UUID:             uuid.New(),
		WorkshopID:       request.WorkshopID,
		JobCardID:        jobCard.ID,
		OriginalFilename: request.Filename,
		StoredPath:       storedPath,
		ThumbnailPath:    thumbPath,
		SizeBytes:        int64(len(request.Data)),
		MimeType:         detected,
		Extension:        ext,
	}

	if err := f.attachmentRepo.Save(ctx, &attachment); err != nil {
		_ = os.Remove(filepath.FromSlash(storedPath))
		if thumbPath != nil {
			_ = os.Remove(filepath.FromSlash(*thumbPath))
		}
		return nil, NewBusinessError("ATTACHMENT_UPLOAD_FAILED", "Attachment upload failed", err)
	}

	result := ToAttachmentDTO(attachment)
	return &result, nil
}

// DownloadAttachment returns the original file bytes
func (f *AttachmentFlowImpl) DownloadAttachment(ctx context.Context, workshopID uint, attachmentUUID string) (string, string, []byte, error) {
	attachment, err := f.findWorkshopAttachment(ctx, workshopID, attachmentUUID)
	if err != nil {
		return "", "", nil, NewBusinessError("ATTACHMENT_GET_FAILED", "Attachment lookup failed", err)
	}

	cleanPath, err := f.sanitizePath(attachment.StoredPath)
	if err != nil {
		return "", "", nil, err
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return "", "", nil, NewBusinessError("ATTACHMENT_READ_FAILED", "Attachment read failed", err)
	}

	contentType := mime.TypeByExtension(attachment.Extension)
	if contentType == "" {
		contentType = attachment.MimeType
	}

	return attachment.OriginalFilename, contentType, data, nil
}

// PreviewAttachment returns the pre-rendered thumbnail, rendering one on the
// fly for rows that predate thumbnail generation
func (f *AttachmentFlowImpl) PreviewAttachment(ctx context.Context, workshopID uint, attachmentUUID string) (string, string, []byte, error) {
	attachment, err := f.findWorkshopAttachment(ctx, workshopID, attachmentUUID)
	if err != nil {
		return "", "", nil, NewBusinessError("ATTACHMENT_GET_FAILED", "Attachment lookup failed", err)
	}

	if attachment.ThumbnailPath != nil {
		cleanPath, err := f.sanitizePath(*attachment.ThumbnailPath)
		if err == nil {
			if data, err := os.ReadFile(cleanPath); err == nil {
				return "preview.jpg", "image/jpeg", data, nil
			}
		}
	}

	cleanPath, err := f.sanitizePath(attachment.StoredPath)
	if err != nil {
		return "", "", nil, err
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return "", "", nil, NewBusinessError("ATTACHMENT_READ_FAILED", "Attachment read failed", err)
	}

	thumb, err := renderThumbnail(data)
	if err != nil {
		return "", "", nil, NewBusinessError("ATTACHMENT_PREVIEW_FAILED", "Attachment preview failed", err)
	}

	return "preview.jpg", "image/jpeg", thumb, nil
}

// ListAttachments returns a job card's attachments
func (f *AttachmentFlowImpl) ListAttachments(ctx context.Context, workshopID uint, jobCardUUID string) (*dto.ListAttachmentsResponse, error) {
	jobCard, err := f.jobCardRepo.ByUUID(ctx, jobCardUUID)
	if err != nil {
		return nil, NewBusinessError("ATTACHMENT_LIST_FAILED", "Attachment listing failed", err)
	}
	if jobCard == nil || jobCard.WorkshopID != workshopID {
		return nil, NewBusinessError("ATTACHMENT_LIST_FAILED", "Attachment listing failed", ErrJobCardNotFound)
	}

	attachments, err := f.attachmentRepo.ListByJobCard(ctx, jobCard.ID)
	if err != nil {
		return nil, NewBusinessError("ATTACHMENT_LIST_FAILED", "Attachment listing failed", err)
	}

	items := make([]dto.AttachmentDTO, 0, len(attachments))
	for _, a := range attachments {
		items = append(items, ToAttachmentDTO(*a))
	}

	return &dto.ListAttachmentsResponse{Items: items}, nil
}

func (f *AttachmentFlowImpl) findWorkshopAttachment(ctx context.Context, workshopID uint, attachmentUUID string) (*models.Attachment, error) {
	attachment, err := f.attachmentRepo.ByUUID(ctx, attachmentUUID)
	if err != nil {
		return nil, err
	}
	if attachment == nil || attachment.WorkshopID != workshopID {
		return nil, ErrAttachmentNotFound
	}
	return attachment, nil
}

func (f *AttachmentFlowImpl) baseDir() string {
	if f.uploadsConfig != nil && f.uploadsConfig.Dir != "" {
		return f.uploadsConfig.Dir
	}
	return filepath.Join("data", "uploads", "attachments")
}

func (f *AttachmentFlowImpl) maxSizeBytes() int64 {
	if f.uploadsConfig != nil && f.uploadsConfig.MaxSizeMB > 0 {
		return f.uploadsConfig.MaxSizeMB * 1024 * 1024
	}
	return 10 * 1024 * 1024
}

func (f *AttachmentFlowImpl) saveToDisk(data []byte, ext string) (string, *string, error) {
	dateDir := utils.UTCNow().Format("2006-01-02")
	dir := filepath.Join(f.baseDir(), dateDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", nil, NewBusinessError("ATTACHMENT_UPLOAD_FAILED", "Attachment upload failed", err)
	}

	name := uuid.New().String()
	fullPath := filepath.Join(dir, name+ext)
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", nil, NewBusinessError("ATTACHMENT_UPLOAD_FAILED", "Attachment upload failed", err)
	}

	storedPath := filepath.ToSlash(fullPath)

	// A thumbnail that fails to render is not fatal; listings fall back to
	// on-the-fly rendering.
	thumb, err := renderThumbnail(data)
	if err != nil {
		return storedPath, nil, nil
	}

	thumbFull := filepath.Join(dir, name+"_thumb.jpg")
	if err := os.WriteFile(thumbFull, thumb, 0o644); err != nil {
		return storedPath, nil, nil
	}

	thumbPath := filepath.ToSlash(thumbFull)
	return storedPath, &thumbPath, nil
}

func (f *AttachmentFlowImpl) sanitizePath(path string) (string, error) {
	if path == "" {
		return "", NewBusinessError("INVALID_PATH", "path is empty", nil)
	}
	cleaned := filepath.ToSlash(filepath.Clean(filepath.FromSlash(path)))
	if filepath.IsAbs(cleaned) {
		return "", NewBusinessError("INVALID_PATH", "absolute path not allowed", nil)
	}
	base := filepath.ToSlash(filepath.Clean(f.baseDir()))
	if !strings.HasPrefix(cleaned, base) {
		return "", NewBusinessError("INVALID_PATH", "path is outside allowed directory", nil)
	}
	return filepath.FromSlash(cleaned), nil
}

func renderThumbnail(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	thumb := resizeImage(img, thumbnailMaxDim)
	buf := &bytes.Buffer{}
	if err := jpeg.Encode(buf, thumb, &jpeg.Options{Quality: 75}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}

	return buf.Bytes(), nil
}

func resizeImage(src image.Image, maxDim int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return src
	}

	var nw, nh int
	if w >= h {
		nw = maxDim
		nh = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		nh = maxDim
		nw = int(float64(w) * float64(maxDim) / float64(h))
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	imagedraw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, imagedraw.Src)
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst
}
