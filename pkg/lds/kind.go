package lds

import (
	"fmt"
	"strings"

	"github.com/gregLibert/lds-biometrics/pkg/icao"
	"github.com/gregLibert/lds-biometrics/pkg/tlv"
)

// Kind selects the data group a buffer is expected to hold.
type Kind uint8

const (
	KindDG2 Kind = iota + 2 // encoded face
	KindDG3                 // encoded finger
)

// Envelope tags of the supported data groups.
const (
	TagDG2 tlv.Tag = 0x75
	TagDG3 tlv.Tag = 0x63
)

// ParseKind maps "dg2" or "dg3" (any case) to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dg2":
		return KindDG2, nil
	case "dg3":
		return KindDG3, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	return k == KindDG2 || k == KindDG3
}

// Tag returns the envelope tag of the data group, 0 for an invalid kind.
func (k Kind) Tag() tlv.Tag {
	switch k {
	case KindDG2:
		return TagDG2
	case KindDG3:
		return TagDG3
	}
	return 0
}

// biometricType is the CBEFF type every header of the group should declare.
func (k Kind) biometricType() uint32 {
	if k == KindDG2 {
		return icao.TypeFacialFeatures
	}
	return icao.TypeFingerprint
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return fmt.Sprintf("dg%d", uint8(k))
}
