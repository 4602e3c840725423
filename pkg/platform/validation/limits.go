package validation

import dErrors "locreg/pkg/domain-errors"

// HTTP body limits
const (
	// MaxBodySize is the maximum allowed request body size (256 KB). A
	// collection item with many files and terms is the largest payload.
	MaxBodySize = 256 * 1024
)

// Slice element count limits. Configured LOC limits bound field sizes;
// these bound the element counts the transport accepts.
const (
	// MaxItemFiles is the maximum number of files per collection item.
	MaxItemFiles = 100

	// MaxTermsAndConditions is the maximum number of terms elements per item.
	MaxTermsAndConditions = 20
)

// String element length limits for fields the LOC limits do not cover.
const (
	// MaxFileNameLength is the maximum length of a collection item file name.
	MaxFileNameLength = 255

	// MaxContentTypeLength is the maximum length of a collection item file content type.
	MaxContentTypeLength = 255

	// MaxTermsTypeLength is the maximum length of a terms and conditions type.
	MaxTermsTypeLength = 255

	// MaxTermsDetailsLength is the maximum length of terms and conditions details.
	MaxTermsDetailsLength = 4096
)

// CheckSliceCount fails when count is above max.
func CheckSliceCount(fieldName string, count, max int) error {
	if count <= max {
		return nil
	}
	return dErrors.Newf(dErrors.CodeValidation, "too many %s: max %d allowed", fieldName, max)
}

// CheckStringLength fails when value is longer than max bytes.
func CheckStringLength(fieldName, value string, max int) error {
	if len(value) <= max {
		return nil
	}
	return dErrors.Newf(dErrors.CodeValidation, "%s exceeds max length of %d", fieldName, max)
}
