package models

import (
	dErrors "locreg/pkg/domain-errors"
)

// RuleError is one named condition of the closed set of LOC rule failures.
// Services return it wrapped in a domain error carrying its category code,
// so both errors.Is(err, ErrX) and dErrors.HasCode(err, code) hold.
type RuleError struct {
	reason  string
	code    dErrors.Code
	message string
}

func (e *RuleError) Error() string  { return e.message }
func (e *RuleError) Reason() string { return e.reason }
func (e *RuleError) Code() dErrors.Code {
	return e.code
}

// Domain wraps the rule into a domain error.
func (e *RuleError) Domain() error {
	return &dErrors.Error{Code: e.code, Message: e.message, Err: e}
}

func rule(reason string, code dErrors.Code, message string) *RuleError {
	return &RuleError{reason: reason, code: code, message: message}
}

// Not-found.
var (
	ErrNotFound                      = rule("NotFound", dErrors.CodeNotFound, "LOC not found")
	ErrLinkedLocNotFound             = rule("LinkedLocNotFound", dErrors.CodeNotFound, "linked LOC not found")
	ErrReplacerLocNotFound           = rule("ReplacerLocNotFound", dErrors.CodeNotFound, "replacer LOC not found")
	ErrTermsAndConditionsLocNotFound = rule("TermsAndConditionsLocNotFound", dErrors.CodeNotFound, "terms and conditions LOC not found")
)

// Authorization.
var (
	ErrUnauthorized       = rule("Unauthorized", dErrors.CodeForbidden, "caller is not the LOC owner")
	ErrInvalidSubmitter   = rule("InvalidSubmitter", dErrors.CodeForbidden, "submitter is neither the owner nor the requester account")
	ErrWrongCollectionLoc = rule("WrongCollectionLoc", dErrors.CodeForbidden, "collection LOC missing or not accepting items from caller")
)

// State conflict.
var (
	ErrCannotMutate                   = rule("CannotMutate", dErrors.CodeConflict, "LOC is closed")
	ErrCannotMutateVoid               = rule("CannotMutateVoid", dErrors.CodeConflict, "LOC is void")
	ErrAlreadyClosed                  = rule("AlreadyClosed", dErrors.CodeConflict, "LOC already closed")
	ErrAlreadyVoid                    = rule("AlreadyVoid", dErrors.CodeConflict, "LOC already void")
	ErrReplacerLocAlreadyVoid         = rule("ReplacerLocAlreadyVoid", dErrors.CodeConflict, "replacer LOC is void")
	ErrReplacerLocAlreadyReplacing    = rule("ReplacerLocAlreadyReplacing", dErrors.CodeConflict, "replacer LOC already replaces another LOC")
	ErrUnexpectedRequester            = rule("UnexpectedRequester", dErrors.CodeConflict, "requester LOC is not a closed identity LOC")
	ErrCollectionLimitsReached        = rule("CollectionLimitsReached", dErrors.CodeConflict, "collection size or submission deadline reached")
	ErrTermsAndConditionsLocVoid      = rule("TermsAndConditionsLocVoid", dErrors.CodeConflict, "terms and conditions LOC is void")
	ErrTermsAndConditionsLocNotClosed = rule("TermsAndConditionsLocNotClosed", dErrors.CodeConflict, "terms and conditions LOC is not closed")
)

// Validation.
var (
	ErrMetadataItemInvalid       = rule("MetadataItemInvalid", dErrors.CodeValidation, "metadata item exceeds size limits")
	ErrFileInvalid               = rule("FileInvalid", dErrors.CodeValidation, "file exceeds size limits")
	ErrLocLinkInvalid            = rule("LocLinkInvalid", dErrors.CodeValidation, "link exceeds size limits")
	ErrReplacerLocWrongType      = rule("ReplacerLocWrongType", dErrors.CodeValidation, "replacer LOC type differs")
	ErrCollectionHasNoLimit      = rule("CollectionHasNoLimit", dErrors.CodeValidation, "collection requires a max size or a last block submission")
	ErrCollectionItemTooMuchData = rule("CollectionItemTooMuchData", dErrors.CodeValidation, "collection item exceeds size limits")
	ErrMissingToken              = rule("MissingToken", dErrors.CodeValidation, "restricted delivery requires a token")
	ErrMissingFiles              = rule("MissingFiles", dErrors.CodeValidation, "restricted delivery requires files")
	ErrCannotUpload              = rule("CannotUpload", dErrors.CodeValidation, "collection does not accept files")
	ErrMustUpload                = rule("MustUpload", dErrors.CodeValidation, "collection requires files")
	ErrDuplicateFile             = rule("DuplicateFile", dErrors.CodeValidation, "duplicate file hash in item")
)

// Uniqueness.
var (
	ErrAlreadyExists               = rule("AlreadyExists", dErrors.CodeConflict, "LOC already exists")
	ErrCollectionItemAlreadyExists = rule("CollectionItemAlreadyExists", dErrors.CodeConflict, "collection item already exists")
)

// AllRuleErrors lists every rule condition, used by metrics pre-registration and tests.
var AllRuleErrors = []*RuleError{
	ErrNotFound, ErrLinkedLocNotFound, ErrReplacerLocNotFound, ErrTermsAndConditionsLocNotFound,
	ErrUnauthorized, ErrInvalidSubmitter, ErrWrongCollectionLoc,
	ErrCannotMutate, ErrCannotMutateVoid, ErrAlreadyClosed, ErrAlreadyVoid,
	ErrReplacerLocAlreadyVoid, ErrReplacerLocAlreadyReplacing, ErrUnexpectedRequester,
	ErrCollectionLimitsReached, ErrTermsAndConditionsLocVoid, ErrTermsAndConditionsLocNotClosed,
	ErrMetadataItemInvalid, ErrFileInvalid, ErrLocLinkInvalid, ErrReplacerLocWrongType,
	ErrCollectionHasNoLimit, ErrCollectionItemTooMuchData, ErrMissingToken, ErrMissingFiles,
	ErrCannotUpload, ErrMustUpload, ErrDuplicateFile,
	ErrAlreadyExists, ErrCollectionItemAlreadyExists,
}
