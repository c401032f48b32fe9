package icao

import (
	"fmt"

	"github.com/gregLibert/lds-biometrics/pkg/bits"
)

// CBEFF biometric type codes (NIST IR 6529-A Table 4).
const (
	TypeNoInformation      uint32 = 0x00
	TypeMultipleBiometrics uint32 = 0x01
	TypeFacialFeatures     uint32 = 0x02
	TypeFingerprint        uint32 = 0x08
	TypeIris               uint32 = 0x10
)

// BiometricType returns the description of a CBEFF biometric type code.
// Only the fingerprint code is named; every other value is passed through.
func BiometricType(code uint32) string {
	if code == TypeFingerprint {
		return "Fingerprint"
	}
	return fmt.Sprintf("Unknown biometric type: %d", code)
}

// Hand is the position part (bits 2-1) of a biometric subtype.
type Hand uint8

const (
	HandNone  Hand = 0b00
	HandRight Hand = 0b01
	HandLeft  Hand = 0b10
)

func (h Hand) String() string {
	switch h {
	case HandRight:
		return "Right"
	case HandLeft:
		return "Left"
	default:
		return ""
	}
}

// FingerType is the finger part (bits 5-3) of a biometric subtype.
type FingerType uint8

const (
	FingerNoMeaning FingerType = 0b000
	FingerThumb     FingerType = 0b001
	FingerPointer   FingerType = 0b010
	FingerMiddle    FingerType = 0b011
	FingerRing      FingerType = 0b100
	FingerLittle    FingerType = 0b101
)

var fingerTypeNames = [...]string{
	FingerNoMeaning: "No meaning",
	FingerThumb:     "Thumb",
	FingerPointer:   "Pointer finger",
	FingerMiddle:    "Middle finger",
	FingerRing:      "Ring finger",
	FingerLittle:    "Little finger",
}

// Reserved reports whether the value is 0b110 or 0b111.
func (f FingerType) Reserved() bool {
	return int(f) >= len(fingerTypeNames)
}

func (f FingerType) String() string {
	if f.Reserved() {
		return "Reserved for future use"
	}
	return fingerTypeNames[f]
}

// Subtype is a CBEFF biometric subtype byte.
type Subtype uint8

// Hand returns bits 2-1.
func (s Subtype) Hand() Hand {
	return Hand(bits.GetRange(byte(s), 2, 1))
}

// FingerType returns bits 5-3.
func (s Subtype) FingerType() FingerType {
	return FingerType(bits.GetRange(byte(s), 5, 3))
}

// Reserved reports whether the subtype carries a reserved finger type.
func (s Subtype) Reserved() bool {
	return s != 0 && s.FingerType().Reserved()
}

func (s Subtype) String() string {
	if s == 0 {
		return "No information given"
	}

	hand := s.Hand().String()
	finger := s.FingerType()

	switch {
	case finger.Reserved():
		return finger.String()
	case finger == FingerNoMeaning:
		if hand != "" {
			return hand
		}
		return finger.String()
	case hand != "":
		return hand + " " + finger.String()
	default:
		return finger.String()
	}
}

// BiometricSubtype returns the description of a CBEFF biometric subtype code.
//
// A reserved finger type wins over any position bits.
func BiometricSubtype(code uint8) string {
	return Subtype(code).String()
}
