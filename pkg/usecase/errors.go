package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrRiskNotFound      = errors.New("risk not found")
	ErrTreatmentNotFound = errors.New("treatment not found")
	ErrWorkshopNotFound  = errors.New("workshop not found")
	ErrControlNotFound   = errors.New("control not found")
	ErrAssetNotFound     = errors.New("asset not found")

	// Conflict errors
	ErrTreatmentClosed = errors.New("treatment closure already approved")
	ErrDuplicateRiskID = errors.New("risk ID already assigned")

	// Input errors
	ErrInvalidInput = errors.New("invalid input")
)
