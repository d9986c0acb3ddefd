package handlers

import (
	"context"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/pitline/pitline/app/dto"
	"github.com/pitline/pitline/app/middleware"
	businessflow "github.com/pitline/pitline/business_flow"
)

// AttachmentHandlerInterface defines the contract for job card attachment handlers
type AttachmentHandlerInterface interface {
	Upload(c fiber.Ctx) error
	Download(c fiber.Ctx) error
	Preview(c fiber.Ctx) error
	List(c fiber.Ctx) error
}

// AttachmentHandler handles job card photo uploads and downloads
type AttachmentHandler struct {
	attachmentFlow businessflow.AttachmentFlow
	validator      *validator.Validate
}

func (h *AttachmentHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *AttachmentHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewAttachmentHandler creates a new attachment handler
func NewAttachmentHandler(attachmentFlow businessflow.AttachmentFlow) *AttachmentHandler {
	return &AttachmentHandler{
		attachmentFlow: attachmentFlow,
		validator:      validator.New(),
	}
}

// Upload stores a photo against a job card
// @Summary Upload Attachment
// @Description Upload an image attachment to a job card
// @Tags Attachments
// @Accept multipart/form-data
// @Produce json
// @Param uuid path string true "Job card UUID"
// @Param file formData file true "Image file"
// @Success 201 {object} dto.APIResponse{data=dto.AttachmentDTO} "Attachment uploaded"
// @Failure 400 {object} dto.APIResponse "Invalid file"
// @Failure 404 {object} dto.APIResponse "Job card not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/job-cards/{uuid}/attachments [post]
func (h *AttachmentHandler) Upload(c fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil || fileHeader == nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "file is required", "INVALID_FILE", nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "invalid file", "INVALID_FILE", err.Error())
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "invalid file", "INVALID_FILE", err.Error())
	}

	workshopID, ok := middleware.GetWorkshopIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Workshop ID not found in context", "MISSING_WORKSHOP_ID", nil)
	}

	req := dto.UploadAttachmentRequest{
		WorkshopID:  workshopID,
		JobCardUUID: c.Params("uuid"),
		Filename:    fileHeader.Filename,
		Data:        data,
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.attachmentFlow.UploadAttachment(h.createRequestContext(c, "/api/v1/job-cards/{uuid}/attachments"), &req, metadata)
	if err != nil {
		if businessflow.IsJobCardNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Job card not found", "JOB_CARD_NOT_FOUND", nil)
		}
		if businessflow.IsUnsupportedFileType(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Unsupported file type", "UNSUPPORTED_FILE_TYPE", nil)
		}
		if businessflow.IsFileTooLarge(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "File too large", "FILE_TOO_LARGE", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to upload attachment", "UPLOAD_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Attachment uploaded", result)
}

// Download streams the original attachment file
// @Summary Download Attachment
// @Description Download an attachment by uuid
// @Tags Attachments
// @Produce application/octet-stream
// @Param uuid path string true "Attachment UUID"
// @Success 200 {string} string "Binary file"
// @Failure 404 {object} dto.APIResponse "Attachment not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/attachments/{uuid} [get]
func (h *AttachmentHandler) Download(c fiber.Ctx) error {
	workshopID, ok := middleware.GetWorkshopIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Workshop ID not found in context", "MISSING_WORKSHOP_ID", nil)
	}

	filename, contentType, data, err := h.attachmentFlow.DownloadAttachment(h.createRequestContext(c, "/api/v1/attachments/{uuid}"), workshopID, c.Params("uuid"))
	if err != nil {
		if businessflow.IsAttachmentNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Attachment not found", "ATTACHMENT_NOT_FOUND", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to download attachment", "DOWNLOAD_FAILED", nil)
	}

	if contentType != "" {
		c.Set("Content-Type", contentType)
	}
	c.Set("Content-Disposition", "attachment; filename="+filename)
	return c.Send(data)
}

// Preview streams a thumbnail of the attachment
// @Summary Preview Attachment
// @Description Return a resized thumbnail for an image attachment
// @Tags Attachments
// @Produce image/jpeg
// @Param uuid path string true "Attachment UUID"
// @Success 200 {string} string "Thumbnail image"
// @Failure 404 {object} dto.APIResponse "Attachment not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/attachments/{uuid}/preview [get]
func (h *AttachmentHandler) Preview(c fiber.Ctx) error {
	workshopID, ok := middleware.GetWorkshopIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Workshop ID not found in context", "MISSING_WORKSHOP_ID", nil)
	}

	filename, contentType, data, err := h.attachmentFlow.PreviewAttachment(h.createRequestContext(c, "/api/v1/attachments/{uuid}/preview"), workshopID, c.Params("uuid"))
	if err != nil {
		if businessflow.IsAttachmentNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Attachment not found", "ATTACHMENT_NOT_FOUND", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to preview attachment", "PREVIEW_FAILED", nil)
	}

	if contentType != "" {
		c.Set("Content-Type", contentType)
	}
	c.Set("Content-Disposition", "inline; filename="+filename)
	return c.Send(data)
}

// List returns a job card's attachments
// @Summary List Attachments
// @Description List the attachments uploaded to a job card
// @Tags Attachments
// @Produce json
// @Param uuid path string true "Job card UUID"
// @Success 200 {object} dto.APIResponse{data=dto.ListAttachmentsResponse} "Attachments"
// @Failure 404 {object} dto.APIResponse "Job card not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/job-cards/{uuid}/attachments [get]
func (h *AttachmentHandler) List(c fiber.Ctx) error {
	workshopID, ok := middleware.GetWorkshopIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Workshop ID not found in context", "MISSING_WORKSHOP_ID", nil)
	}

	result, err := h.attachmentFlow.ListAttachments(h.createRequestContext(c, "/api/v1/job-cards/{uuid}/attachments"), workshopID, c.Params("uuid"))
	if err != nil {
		if businessflow.IsJobCardNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Job card not found", "JOB_CARD_NOT_FOUND", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list attachments", "ATTACHMENT_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Attachments retrieved", result)
}

func (h *AttachmentHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	ctx = context.WithValue(ctx, businessflow.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)
	ctx = context.WithValue(ctx, "cancel_func", cancel)

	return ctx
}
