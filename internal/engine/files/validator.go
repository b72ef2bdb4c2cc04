package files

import (
	"fmt"
	"strings"

	"filedrive/internal/pkg/errors"
)

const maxNameLength = 255

var validTypes = map[string]bool{
	TypeImage: true,
	TypePDF:   true,
	TypeCSV:   true,
	TypeVideo: true,
}

func ValidateNew(name, fileType, blobHandle, orgID string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", errors.ErrInvalidInput)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", errors.ErrInvalidInput, maxNameLength)
	}
	if !validTypes[fileType] {
		return fmt.Errorf("%w: type must be one of image, pdf, csv, video", errors.ErrInvalidInput)
	}
	if blobHandle == "" {
		return fmt.Errorf("%w: blob_handle is required", errors.ErrInvalidInput)
	}
	if orgID == "" {
		return fmt.Errorf("%w: org_id is required", errors.ErrInvalidInput)
	}
	return nil
}
