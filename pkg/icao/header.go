package icao

import (
	"errors"

	"github.com/gregLibert/lds-biometrics/pkg/tlv"
)

// Tags of the biometric information templates (ICAO Doc 9303-10).
const (
	TagBiometricGroup      tlv.Tag = 0x7F61
	TagInstanceCount       tlv.Tag = 0x02
	TagBiometricInfo       tlv.Tag = 0x7F60
	TagHeaderTemplate      tlv.Tag = 0xA1
	TagBiometricData       tlv.Tag = 0x5F2E
	TagBiometricDataCipher tlv.Tag = 0x7F2E

	tagFormatOwner tlv.Tag = 0x87
	tagFormatType  tlv.Tag = 0x88
)

var (
	ErrMissingHeader   = errors.New("missing biometric header template")
	ErrMalformedHeader = errors.New("malformed biometric header template")
)

// Header is the decoded Biometric Header Template.
type Header struct {
	Version      []byte          `tlv:"80"`
	Type         uint32          `tlv:"81"`
	Subtype      Subtype         `tlv:"82"`
	CreationDate *DateTime       `tlv:"83"`
	Validity     *ValidityPeriod `tlv:"85"`
	Creator      []byte          `tlv:"86"`
	FormatOwner  uint16          `tlv:"87"`
	FormatType   uint16          `tlv:"88"`

	Unknown []tlv.Node `tlv:",unknown"`
}

// DecodeHeader maps an 'A1' node to a Header.
// Format owner and format type are mandatory; every other element is optional.
func DecodeHeader(node tlv.Node) (Header, error) {
	if node.Tag != TagHeaderTemplate {
		return Header{}, tlv.NewError(ErrMissingHeader, node.Offset, "expected %s, found %s", TagHeaderTemplate, node.Tag)
	}

	var h Header
	if err := tlv.UnmarshalNodes(node.Children, &h); err != nil {
		return Header{}, tlv.NewError(ErrMalformedHeader, node.Offset, "%v", err)
	}

	for _, mandatory := range []tlv.Tag{tagFormatOwner, tagFormatType} {
		if _, ok := node.FindChild(mandatory); !ok {
			return Header{}, tlv.NewError(ErrMalformedHeader, node.Offset, "mandatory tag %s not found", mandatory)
		}
	}

	return h, nil
}

// TypeLabel describes the biometric type code.
func (h Header) TypeLabel() string {
	return BiometricType(h.Type)
}

// SubtypeLabel describes the biometric subtype code.
func (h Header) SubtypeLabel() string {
	return h.Subtype.String()
}
