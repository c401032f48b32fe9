package iso19794

import (
	"fmt"
	"strings"
)

func lookup[T ~uint8 | ~uint16](names map[T]string, v T) string {
	if name, ok := names[v]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", v)
}

// FingerPosition is the finger position code of ISO/IEC 19794-4 Table 2.
type FingerPosition uint8

const (
	PositionUnknown FingerPosition = iota
	PositionRightThumb
	PositionRightIndex
	PositionRightMiddle
	PositionRightRing
	PositionRightLittle
	PositionLeftThumb
	PositionLeftIndex
	PositionLeftMiddle
	PositionLeftRing
	PositionLeftLittle
)

var fingerPositionNames = [...]string{
	PositionUnknown:     "Unknown",
	PositionRightThumb:  "Right thumb",
	PositionRightIndex:  "Right index finger",
	PositionRightMiddle: "Right middle finger",
	PositionRightRing:   "Right ring finger",
	PositionRightLittle: "Right little finger",
	PositionLeftThumb:   "Left thumb",
	PositionLeftIndex:   "Left index finger",
	PositionLeftMiddle:  "Left middle finger",
	PositionLeftRing:    "Left ring finger",
	PositionLeftLittle:  "Left little finger",
}

// Known reports whether the code is one of the eleven defined positions.
func (p FingerPosition) Known() bool {
	return int(p) < len(fingerPositionNames)
}

func (p FingerPosition) String() string {
	if !p.Known() {
		return fmt.Sprintf("Unknown(%d)", uint8(p))
	}
	return fingerPositionNames[p]
}

// Slug returns the lower-case, underscore separated name ("right_thumb"),
// suitable for building export file names.
func (p FingerPosition) Slug() string {
	return strings.ReplaceAll(strings.ToLower(p.String()), " ", "_")
}

// Impression is the finger impression type.
type Impression uint8

const (
	ImpressionLivePlain       Impression = 0
	ImpressionLiveRolled      Impression = 1
	ImpressionNonLivePlain    Impression = 2
	ImpressionNonLiveRolled   Impression = 3
	ImpressionLatent          Impression = 7
	ImpressionSwipe           Impression = 8
	ImpressionLiveContactless Impression = 9
)

var impressionNames = map[Impression]string{
	ImpressionLivePlain:       "Live-scan plain",
	ImpressionLiveRolled:      "Live-scan rolled",
	ImpressionNonLivePlain:    "Non-live-scan plain",
	ImpressionNonLiveRolled:   "Non-live-scan rolled",
	ImpressionLatent:          "Latent",
	ImpressionSwipe:           "Swipe",
	ImpressionLiveContactless: "Live-scan contactless",
}

func (i Impression) String() string { return lookup(impressionNames, i) }

// Compression is the image compression algorithm of a finger record.
type Compression uint8

const (
	CompressionNone      Compression = 0
	CompressionBitPacked Compression = 1
	CompressionWSQ       Compression = 2
	CompressionJPEG      Compression = 3
	CompressionJPEG2000  Compression = 4
	CompressionPNG       Compression = 5
)

var compressionNames = map[Compression]string{
	CompressionNone:      "Uncompressed",
	CompressionBitPacked: "Uncompressed (bit-packed)",
	CompressionWSQ:       "WSQ",
	CompressionJPEG:      "JPEG",
	CompressionJPEG2000:  "JPEG2000",
	CompressionPNG:       "PNG",
}

var compressionExtensions = map[Compression]string{
	CompressionWSQ:      ".wsq",
	CompressionJPEG:     ".jpg",
	CompressionJPEG2000: ".jp2",
	CompressionPNG:      ".png",
}

func (c Compression) String() string { return lookup(compressionNames, c) }

// Extension returns the usual file extension, ".raw" when there is none.
func (c Compression) Extension() string {
	if ext, ok := compressionExtensions[c]; ok {
		return ext
	}
	return ".raw"
}

// ScaleUnits is the unit of the resolutions in a finger general header.
type ScaleUnits uint8

const (
	ScalePixelsPerInch       ScaleUnits = 1
	ScalePixelsPerCentimeter ScaleUnits = 2
)

var scaleUnitNames = map[ScaleUnits]string{
	ScalePixelsPerInch:       "ppi",
	ScalePixelsPerCentimeter: "ppcm",
}

func (s ScaleUnits) String() string { return lookup(scaleUnitNames, s) }

// Quality is a finger image quality, 0 to 100, or QualityNotReported.
type Quality uint8

// QualityNotReported is distinct from any measured value, including 100.
const QualityNotReported Quality = 255

// Reported reports whether the quality holds a measured value.
func (q Quality) Reported() bool {
	return q != QualityNotReported
}

func (q Quality) String() string {
	if !q.Reported() {
		return "not reported"
	}
	return fmt.Sprintf("%d%%", uint8(q))
}

// Gender of the subject of a facial image.
type Gender uint8

var genderNames = map[Gender]string{
	0x00: "Unspecified",
	0x01: "Male",
	0x02: "Female",
	0xFF: "Unknown",
}

func (g Gender) String() string { return lookup(genderNames, g) }

// EyeColour of the subject of a facial image.
type EyeColour uint8

var eyeColourNames = map[EyeColour]string{
	0x00: "Unspecified",
	0x01: "Black",
	0x02: "Blue",
	0x03: "Brown",
	0x04: "Gray",
	0x05: "Green",
	0x06: "Multi-coloured",
	0x07: "Pink",
	0xFF: "Other or unknown",
}

func (e EyeColour) String() string { return lookup(eyeColourNames, e) }

// HairColour of the subject of a facial image.
type HairColour uint8

var hairColourNames = map[HairColour]string{
	0x00: "Unspecified",
	0x01: "Bald",
	0x02: "Black",
	0x03: "Blonde",
	0x04: "Brown",
	0x05: "Gray",
	0x06: "White",
	0x07: "Red",
	0xFF: "Unknown",
}

func (h HairColour) String() string { return lookup(hairColourNames, h) }

// Expression of the face.
type Expression uint16

var expressionNames = map[Expression]string{
	0: "Unspecified",
	1: "Neutral",
	2: "Smile, closed jaw",
	3: "Smile, open jaw",
	4: "Raised eyebrows",
	5: "Eyes looking away",
	6: "Squinting",
	7: "Frowning",
}

func (e Expression) String() string { return lookup(expressionNames, e) }

// FeatureMask is the 24-bit property mask of a facial information block.
type FeatureMask uint32

// Properties of FeatureMask; FeaturesSpecified must be set for the others to carry meaning.
const (
	FeaturesSpecified FeatureMask = 1 << iota
	FeatureGlasses
	FeatureMoustache
	FeatureBeard
	FeatureTeeth
	FeatureBlink
	FeatureMouthOpen
	FeatureLeftEyePatch
	FeatureRightEyePatch
	FeatureDarkGlasses
	FeatureMedicalCondition
)

var featureNames = []struct {
	flag FeatureMask
	name string
}{
	{FeatureGlasses, "glasses"},
	{FeatureMoustache, "moustache"},
	{FeatureBeard, "beard"},
	{FeatureTeeth, "teeth visible"},
	{FeatureBlink, "blink"},
	{FeatureMouthOpen, "mouth open"},
	{FeatureLeftEyePatch, "left eye patch"},
	{FeatureRightEyePatch, "right eye patch"},
	{FeatureDarkGlasses, "dark glasses"},
	{FeatureMedicalCondition, "distorting medical condition"},
}

// Has reports whether the feature is specified and present.
func (m FeatureMask) Has(f FeatureMask) bool {
	return m&FeaturesSpecified != 0 && m&f != 0
}

func (m FeatureMask) String() string {
	if m&FeaturesSpecified == 0 {
		return "Unspecified"
	}
	var present []string
	for _, f := range featureNames {
		if m.Has(f.flag) {
			present = append(present, f.name)
		}
	}
	if len(present) == 0 {
		return "None"
	}
	return strings.Join(present, ", ")
}

// FaceImageType is the face image type of ISO/IEC 19794-5.
type FaceImageType uint8

var faceImageTypeNames = map[FaceImageType]string{
	0: "Basic",
	1: "Full frontal",
	2: "Token frontal",
}

func (f FaceImageType) String() string { return lookup(faceImageTypeNames, f) }

// ImageDataType is the encoding of a facial image payload.
type ImageDataType uint8

const (
	ImageDataJPEG     ImageDataType = 0
	ImageDataJPEG2000 ImageDataType = 1
)

var imageDataTypeNames = map[ImageDataType]string{
	ImageDataJPEG:     "JPEG",
	ImageDataJPEG2000: "JPEG2000",
}

func (d ImageDataType) String() string { return lookup(imageDataTypeNames, d) }

// Extension returns the usual file extension, ".bin" for unknown encodings.
func (d ImageDataType) Extension() string {
	switch d {
	case ImageDataJPEG:
		return ".jpg"
	case ImageDataJPEG2000:
		return ".jp2"
	default:
		return ".bin"
	}
}

// ColourSpace of a facial image.
type ColourSpace uint8

var colourSpaceNames = map[ColourSpace]string{
	0: "Unspecified",
	1: "24-bit RGB",
	2: "YUV422",
	3: "8-bit greyscale",
	4: "Other",
}

func (c ColourSpace) String() string { return lookup(colourSpaceNames, c) }

// SourceType describes how a facial image was captured.
type SourceType uint8

var sourceTypeNames = map[SourceType]string{
	0: "Unspecified",
	1: "Static photo, unknown source",
	2: "Static photo, digital still",
	3: "Static photo, scan",
	4: "Video frame, unknown source",
	5: "Video frame, analogue video",
	6: "Video frame, digital video",
	7: "Unknown",
}

func (s SourceType) String() string { return lookup(sourceTypeNames, s) }
