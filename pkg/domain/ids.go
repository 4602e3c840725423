// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"encoding/hex"
	"strings"
	"unicode"

	"github.com/google/uuid"

	dErrors "locreg/pkg/domain-errors"
)

// MaxAccountIDLength bounds account identifiers accepted at trust boundaries.
const MaxAccountIDLength = 64

// LocID identifies a Legal Officer Case. It is supplied by the caller at creation.
type LocID uuid.UUID

// AccountID is an opaque chain account address (owner, requester, submitter).
type AccountID string

// BlockNumber is the externally supplied monotonic block height.
type BlockNumber uint64

// Hash is a 32-byte content hash (file hashes, seals).
type Hash [32]byte

// CollectionItemID identifies an item within a collection LOC.
type CollectionItemID [32]byte

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParseLocID(s string) (LocID, error) {
	if s == "" {
		return LocID{}, dErrors.New(dErrors.CodeInvalidInput, "LOC ID cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return LocID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid LOC ID format")
	}
	if id == uuid.Nil {
		return LocID{}, dErrors.New(dErrors.CodeInvalidInput, "LOC ID cannot be nil")
	}
	return LocID(id), nil
}

func ParseAccountID(s string) (AccountID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "account ID cannot be empty")
	}
	if len(s) > MaxAccountIDLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, "account ID too long")
	}
	if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "account ID cannot contain whitespace")
	}
	return AccountID(s), nil
}

func ParseHash(s string) (Hash, error) {
	b, err := parseHex32(s, "hash")
	return Hash(b), err
}

func ParseCollectionItemID(s string) (CollectionItemID, error) {
	b, err := parseHex32(s, "collection item ID")
	return CollectionItemID(b), err
}

// String methods - for logging and debugging.

func (id LocID) String() string            { return uuid.UUID(id).String() }
func (id AccountID) String() string        { return string(id) }
func (h Hash) String() string              { return "0x" + hex.EncodeToString(h[:]) }
func (id CollectionItemID) String() string { return "0x" + hex.EncodeToString(id[:]) }

// IsNil checks - used for service-layer validation.

func (id LocID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id AccountID) IsNil() bool { return id == "" }

// Text marshalling keeps JSON payloads in the 0x-hex form used at the API.

func (h Hash) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

func (h *Hash) UnmarshalText(text []byte) error {
	parsed, err := ParseHash(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

func (id CollectionItemID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *CollectionItemID) UnmarshalText(text []byte) error {
	parsed, err := ParseCollectionItemID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id LocID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *LocID) UnmarshalText(text []byte) error {
	parsed, err := ParseLocID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func parseHex32(s, label string) ([32]byte, error) {
	var out [32]byte
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if s == "" {
		return out, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	if len(s) != hex.EncodedLen(len(out)) {
		return out, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label+" length")
	}
	if _, err := hex.Decode(out[:], []byte(s)); err != nil {
		return out, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label+" format")
	}
	return out, nil
}
