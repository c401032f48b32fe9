package lds

import (
	"errors"
	"fmt"

	"github.com/gregLibert/lds-biometrics/pkg/icao"
	"github.com/gregLibert/lds-biometrics/pkg/iso19794"
	"github.com/gregLibert/lds-biometrics/pkg/tlv"
)

var (
	ErrUnknownKind     = errors.New("unknown data group kind")
	ErrMissingTemplate = errors.New("missing template")
	ErrInstanceCount   = errors.New("invalid instance count")
	ErrEncipheredBlock = errors.New("enciphered biometric data block")

	// ErrStrictProfile wraps an advisory finding rejected by WithStrict.
	ErrStrictProfile = errors.New("rejected by strict profile")
)

// Advisory findings. They end up in Group.Warnings unless the decoder is strict.
var (
	ErrUnexpectedType  = errors.New("biometric type does not match the data group")
	ErrReservedSubtype = errors.New("reserved biometric subtype")
)

var structural = []error{
	tlv.ErrOutOfBounds,
	tlv.ErrMalformedTLV,
	tlv.ErrTruncatedTLV,
	tlv.ErrUnexpectedTag,
	icao.ErrMissingHeader,
	icao.ErrMalformedHeader,
	iso19794.ErrHeaderTooShort,
	iso19794.ErrImagePayloadTruncated,
	iso19794.ErrFormatIdentifier,
	iso19794.ErrUnsupportedVersion,
	iso19794.ErrTrailingData,
	ErrMissingTemplate,
	ErrInstanceCount,
	ErrEncipheredBlock,
}

// IsStructural reports whether err comes from malformed input, as opposed
// to a bad argument or a strict profile rejection.
func IsStructural(err error) bool {
	for _, target := range structural {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// RecordError reports the failure of one Biometric Information Template.
type RecordError struct {
	Index int // zero-based position of the '7F60' template
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// Warning is an advisory finding: the record was decoded and keeps the raw code.
type Warning struct {
	Record int    // zero-based position of the '7F60' template
	Code   uint32 // offending code as encoded
	Err    error
}

func (w Warning) Error() string {
	return fmt.Sprintf("record %d: %v", w.Record, w.Err)
}

func (w Warning) Unwrap() error {
	return w.Err
}
