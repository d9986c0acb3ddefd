// Package businessflow contains the core business logic and use cases for workshop workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Authentication errors
	ErrUserNotFound       = errors.New("user not found")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrIncorrectPassword  = errors.New("incorrect password")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrCaptchaFailed      = errors.New("captcha verification failed")

	// Workshop errors
	ErrWorkshopNotFound = errors.New("workshop not found")
	ErrWorkshopInactive = errors.New("workshop is inactive")

	// Customer and vehicle errors
	ErrCustomerNotFound     = errors.New("customer not found")
	ErrVehicleNotFound      = errors.New("vehicle not found")
	ErrVehicleOwnerMismatch = errors.New("vehicle does not belong to customer")
	ErrPlateAlreadyExists   = errors.New("plate number already exists")
	ErrVINAlreadyExists     = errors.New("VIN already exists")

	// Job card errors
	ErrJobCardNotFound         = errors.New("job card not found")
	ErrJobCardAccessDenied     = errors.New("job card access denied")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrJobCardNotCompleted     = errors.New("job card is not completed")
	ErrJobCardAlreadyInvoiced  = errors.New("job card already invoiced")
	ErrJobCardLinesRequired    = errors.New("at least one line item is required")

	// Quotation errors
	ErrQuotationNotFound         = errors.New("quotation not found")
	ErrQuotationNotAccepted      = errors.New("quotation is not accepted")
	ErrQuotationAlreadyConverted = errors.New("quotation already converted")

	// Invoice, receipt and payment errors
	ErrInvoiceNotFound          = errors.New("invoice not found")
	ErrInvoiceNotPayable        = errors.New("invoice is not open for payment")
	ErrInvoiceAlreadyVoid       = errors.New("invoice is already void")
	ErrInvoiceHasPayments       = errors.New("invoice with recorded payments cannot be voided")
	ErrSupplierNotFound         = errors.New("supplier not found")
	ErrAmountTooLow             = errors.New("amount must be positive")
	ErrAmountExceedsOutstanding = errors.New("amount exceeds outstanding balance")
	ErrCurrencyNotFound         = errors.New("currency not found")
	ErrCurrencyCodeExists       = errors.New("currency code already exists")

	// Inventory errors
	ErrItemNotFound          = errors.New("inventory item not found")
	ErrSKUAlreadyExists      = errors.New("SKU already exists")
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrStockLinesRequired    = errors.New("at least one stock line is required")
	ErrStockDocumentNotFound = errors.New("stock document not found")

	// Employee errors
	ErrEmployeeNotFound = errors.New("employee not found")

	// Counter errors
	ErrCounterNotFound    = errors.New("counter not found")
	ErrCounterCodeInvalid = errors.New("counter code is invalid")

	// Attachment errors
	ErrAttachmentNotFound  = errors.New("attachment not found")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file is too large")

	// Filter errors
	ErrInvalidPage           = errors.New("page must be at least 1")
	ErrInvalidPageSize       = errors.New("page size must be between 1 and 100")
	ErrStartDateAfterEndDate = errors.New("start date cannot be after end date")

	ErrCacheNotAvailable = errors.New("cache not available")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

func IsAdminNotFound(err error) bool {
	return errors.Is(err, ErrAdminNotFound)
}

func IsAccountInactive(err error) bool {
	return errors.Is(err, ErrAccountInactive)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsEmailAlreadyExists(err error) bool {
	return errors.Is(err, ErrEmailAlreadyExists)
}

func IsCaptchaFailed(err error) bool {
	return errors.Is(err, ErrCaptchaFailed)
}

func IsWorkshopNotFound(err error) bool {
	return errors.Is(err, ErrWorkshopNotFound)
}

func IsWorkshopInactive(err error) bool {
	return errors.Is(err, ErrWorkshopInactive)
}

func IsCustomerNotFound(err error) bool {
	return errors.Is(err, ErrCustomerNotFound)
}

func IsVehicleNotFound(err error) bool {
	return errors.Is(err, ErrVehicleNotFound)
}

func IsVehicleOwnerMismatch(err error) bool {
	return errors.Is(err, ErrVehicleOwnerMismatch)
}

func IsPlateAlreadyExists(err error) bool {
	return errors.Is(err, ErrPlateAlreadyExists)
}

func IsVINAlreadyExists(err error) bool {
	return errors.Is(err, ErrVINAlreadyExists)
}

func IsJobCardNotFound(err error) bool {
	return errors.Is(err, ErrJobCardNotFound)
}

func IsJobCardAccessDenied(err error) bool {
	return errors.Is(err, ErrJobCardAccessDenied)
}

func IsInvalidStatusTransition(err error) bool {
	return errors.Is(err, ErrInvalidStatusTransition)
}

func IsJobCardNotCompleted(err error) bool {
	return errors.Is(err, ErrJobCardNotCompleted)
}

func IsJobCardAlreadyInvoiced(err error) bool {
	return errors.Is(err, ErrJobCardAlreadyInvoiced)
}

func IsJobCardLinesRequired(err error) bool {
	return errors.Is(err, ErrJobCardLinesRequired)
}

func IsQuotationNotFound(err error) bool {
	return errors.Is(err, ErrQuotationNotFound)
}

func IsQuotationNotAccepted(err error) bool {
	return errors.Is(err, ErrQuotationNotAccepted)
}

func IsQuotationAlreadyConverted(err error) bool {
	return errors.Is(err, ErrQuotationAlreadyConverted)
}

func IsInvoiceNotFound(err error) bool {
	return errors.Is(err, ErrInvoiceNotFound)
}

func IsInvoiceNotPayable(err error) bool {
	return errors.Is(err, ErrInvoiceNotPayable)
}

func IsInvoiceAlreadyVoid(err error) bool {
	return errors.Is(err, ErrInvoiceAlreadyVoid)
}

func IsInvoiceHasPayments(err error) bool {
	return errors.Is(err, ErrInvoiceHasPayments)
}

func IsSupplierNotFound(err error) bool {
	return errors.Is(err, ErrSupplierNotFound)
}

func IsAmountTooLow(err error) bool {
	return errors.Is(err, ErrAmountTooLow)
}

func IsAmountExceedsOutstanding(err error) bool {
	return errors.Is(err, ErrAmountExceedsOutstanding)
}

func IsCurrencyNotFound(err error) bool {
	return errors.Is(err, ErrCurrencyNotFound)
}

func IsCurrencyCodeExists(err error) bool {
	return errors.Is(err, ErrCurrencyCodeExists)
}

func IsItemNotFound(err error) bool {
	return errors.Is(err, ErrItemNotFound)
}

func IsSKUAlreadyExists(err error) bool {
	return errors.Is(err, ErrSKUAlreadyExists)
}

func IsInsufficientStock(err error) bool {
	return errors.Is(err, ErrInsufficientStock)
}

func IsStockLinesRequired(err error) bool {
	return errors.Is(err, ErrStockLinesRequired)
}

func IsStockDocumentNotFound(err error) bool {
	return errors.Is(err, ErrStockDocumentNotFound)
}

func IsEmployeeNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound)
}

func IsCounterNotFound(err error) bool {
	return errors.Is(err, ErrCounterNotFound)
}

func IsCounterCodeInvalid(err error) bool {
	return errors.Is(err, ErrCounterCodeInvalid)
}

func IsAttachmentNotFound(err error) bool {
	return errors.Is(err, ErrAttachmentNotFound)
}

func IsUnsupportedFileType(err error) bool {
	return errors.Is(err, ErrUnsupportedFileType)
}

func IsFileTooLarge(err error) bool {
	return errors.Is(err, ErrFileTooLarge)
}

func IsInvalidPage(err error) bool {
	return errors.Is(err, ErrInvalidPage)
}

func IsInvalidPageSize(err error) bool {
	return errors.Is(err, ErrInvalidPageSize)
}

func IsStartDateAfterEndDate(err error) bool {
	return errors.Is(err, ErrStartDateAfterEndDate)
}

func IsCacheNotAvailable(err error) bool {
	return errors.Is(err, ErrCacheNotAvailable)
}
