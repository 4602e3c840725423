package models

import (
	dErrors "locreg/pkg/domain-errors"
)

// Limits are the configured byte-length maxima for variable-size fields.
type Limits struct {
	MaxMetadataItemNameSize          int
	MaxMetadataItemValueSize         int
	MaxFileNatureSize                int
	MaxLinkNatureSize                int
	MaxCollectionItemDescriptionSize int
	MaxCollectionItemTokenTypeSize   int
	MaxCollectionItemTokenIDSize     int
}

func DefaultLimits() Limits {
	return Limits{
		MaxMetadataItemNameSize:          40,
		MaxMetadataItemValueSize:         4096,
		MaxFileNatureSize:                255,
		MaxLinkNatureSize:                255,
		MaxCollectionItemDescriptionSize: 4096,
		MaxCollectionItemTokenTypeSize:   255,
		MaxCollectionItemTokenIDSize:     255,
	}
}

// Validate rejects non-positive maxima, reporting the first one in field order.
func (l Limits) Validate() error {
	fields := []struct {
		name  string
		value int
	}{
		{"max metadata item name size", l.MaxMetadataItemNameSize},
		{"max metadata item value size", l.MaxMetadataItemValueSize},
		{"max file nature size", l.MaxFileNatureSize},
		{"max link nature size", l.MaxLinkNatureSize},
		{"max collection item description size", l.MaxCollectionItemDescriptionSize},
		{"max collection item token type size", l.MaxCollectionItemTokenTypeSize},
		{"max collection item token id size", l.MaxCollectionItemTokenIDSize},
	}
	for _, f := range fields {
		if f.value <= 0 {
			return dErrors.Newf(dErrors.CodeInvariantViolation, "%s must be positive", f.name)
		}
	}
	return nil
}

func (l Limits) CheckMetadata(item MetadataItem) error {
	if len(item.Name) > l.MaxMetadataItemNameSize || len(item.Value) > l.MaxMetadataItemValueSize {
		return ErrMetadataItemInvalid
	}
	return nil
}

func (l Limits) CheckFile(file File) error {
	if len(file.Nature) > l.MaxFileNatureSize {
		return ErrFileInvalid
	}
	return nil
}

func (l Limits) CheckLink(link LocLink) error {
	if len(link.Nature) > l.MaxLinkNatureSize {
		return ErrLocLinkInvalid
	}
	return nil
}

func (l Limits) CheckItemDescription(description string) error {
	if len(description) > l.MaxCollectionItemDescriptionSize {
		return ErrCollectionItemTooMuchData
	}
	return nil
}

func (l Limits) CheckToken(token *CollectionItemToken) error {
	if token == nil {
		return nil
	}
	if len(token.TokenType) > l.MaxCollectionItemTokenTypeSize || len(token.TokenID) > l.MaxCollectionItemTokenIDSize {
		return ErrCollectionItemTooMuchData
	}
	return nil
}
