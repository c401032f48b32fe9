package iso19794

import (
	"fmt"

	"github.com/gregLibert/lds-biometrics/pkg/bits"
	"github.com/gregLibert/lds-biometrics/pkg/tlv"
)

// Fixed sizes of ISO/IEC 19794-5:2005 structures.
const (
	FaceGeneralHeaderSize = 14
	FacialInfoSize        = 20
	FeaturePointSize      = 8
	ImageInfoSize         = 12
)

// FaceIdentifier opens every facial image record.
const FaceIdentifier = "FAC\x00"

// FaceGeneralHeader is the facial record header.
type FaceGeneralHeader struct {
	FormatIdentifier []byte `fmt:"ascii"`
	Version          []byte `fmt:"ascii"`
	RecordLength     uint32
	ImageCount       uint16
}

// PoseAngle holds yaw, pitch and roll as encoded (0 unspecified, 1-181 for -180..+180 degrees).
type PoseAngle struct {
	Yaw   uint8
	Pitch uint8
	Roll  uint8
}

func (p PoseAngle) String() string {
	return fmt.Sprintf("yaw=%d pitch=%d roll=%d", p.Yaw, p.Pitch, p.Roll)
}

// FeaturePoint is a landmark of ISO/IEC 14496-2 (MPEG-4) feature point notation.
type FeaturePoint struct {
	Type  uint8
	Major uint8
	Minor uint8
	X     uint16
	Y     uint16
}

func (f FeaturePoint) String() string {
	return fmt.Sprintf("%d.%d (%d,%d)", f.Major, f.Minor, f.X, f.Y)
}

// FaceImage is one facial record: information block, feature points, image information and payload.
type FaceImage struct {
	BlockLength     uint32
	Gender          Gender
	EyeColour       EyeColour
	HairColour      HairColour
	FeatureMask     FeatureMask
	Expression      Expression
	Pose            PoseAngle
	PoseUncertainty PoseAngle
	FeaturePoints   []FeaturePoint `fmt:"-"`
	ImageType       FaceImageType
	DataType        ImageDataType
	Width           uint16
	Height          uint16
	ColourSpace     ColourSpace
	Source          SourceType
	DeviceType      uint16
	Quality         uint16
	Data            []byte `fmt:"len"`
}

// FaceBlock is a decoded facial image biometric data block.
type FaceBlock struct {
	Header FaceGeneralHeader
	Images []FaceImage
}

// DecodeFaceBlock decodes a complete ISO/IEC 19794-5:2005 block.
// The cursor must cover exactly the block.
func DecodeFaceBlock(c *tlv.Cursor) (*FaceBlock, error) {
	start := c.Offset()

	header, err := ReadFaceGeneralHeader(c)
	if err != nil {
		return nil, err
	}

	body, err := recordCursor(c, start, uint64(header.RecordLength), FaceGeneralHeaderSize)
	if err != nil {
		return nil, err
	}

	block := &FaceBlock{Header: header}
	for i := 0; i < int(header.ImageCount); i++ {
		image, err := DecodeFaceImage(body)
		if err != nil {
			return nil, fmt.Errorf("face %d: %w", i, err)
		}
		block.Images = append(block.Images, image)
	}

	if body.Remaining() > 0 {
		return nil, tlv.NewError(ErrTrailingData, body.Offset(), "%d bytes after %d facial records", body.Remaining(), header.ImageCount)
	}

	return block, nil
}

// ReadFaceGeneralHeader reads the 14-byte facial record header.
func ReadFaceGeneralHeader(c *tlv.Cursor) (FaceGeneralHeader, error) {
	id, version, err := readGeneralHeader(c, FaceGeneralHeaderSize, FaceIdentifier)
	if err != nil {
		return FaceGeneralHeader{}, err
	}

	h := FaceGeneralHeader{FormatIdentifier: id, Version: version}
	h.RecordLength, _ = c.ReadUint32()
	h.ImageCount, _ = c.ReadUint16()

	return h, nil
}

// DecodeFaceImage reads one facial record.
//
// The image payload spans what remains of BlockLength once the facial
// information, the feature points and the image information are read.
func DecodeFaceImage(c *tlv.Cursor) (FaceImage, error) {
	start := c.Offset()
	if c.Remaining() < FacialInfoSize {
		return FaceImage{}, tlv.NewError(ErrHeaderTooShort, start, "facial information needs %d bytes, %d remain", FacialInfoSize, c.Remaining())
	}

	var img FaceImage
	img.BlockLength, _ = c.ReadUint32()
	points, _ := c.ReadUint16()
	gender, _ := c.ReadUint8()
	img.Gender = Gender(gender)
	eyes, _ := c.ReadUint8()
	img.EyeColour = EyeColour(eyes)
	hair, _ := c.ReadUint8()
	img.HairColour = HairColour(hair)
	mask, _ := c.ReadUint24()
	img.FeatureMask = FeatureMask(mask)
	expression, _ := c.ReadUint16()
	img.Expression = Expression(expression)
	img.Pose = readPoseAngle(c)
	img.PoseUncertainty = readPoseAngle(c)

	headerSize := FacialInfoSize + int(points)*FeaturePointSize + ImageInfoSize
	if uint64(img.BlockLength) < uint64(headerSize) {
		return FaceImage{}, tlv.NewError(ErrHeaderTooShort, start, "block length %d cannot hold %d feature points", img.BlockLength, points)
	}
	if c.Remaining() < headerSize-FacialInfoSize {
		return FaceImage{}, tlv.NewError(ErrHeaderTooShort, c.Offset(), "feature points and image information need %d bytes, %d remain", headerSize-FacialInfoSize, c.Remaining())
	}

	for i := 0; i < int(points); i++ {
		img.FeaturePoints = append(img.FeaturePoints, readFeaturePoint(c))
	}

	imageType, _ := c.ReadUint8()
	img.ImageType = FaceImageType(imageType)
	dataType, _ := c.ReadUint8()
	img.DataType = ImageDataType(dataType)
	img.Width, _ = c.ReadUint16()
	img.Height, _ = c.ReadUint16()
	colourSpace, _ := c.ReadUint8()
	img.ColourSpace = ColourSpace(colourSpace)
	source, _ := c.ReadUint8()
	img.Source = SourceType(source)
	img.DeviceType, _ = c.ReadUint16()
	img.Quality, _ = c.ReadUint16()

	data, err := readPayload(c, start, uint64(img.BlockLength), headerSize)
	if err != nil {
		return FaceImage{}, err
	}
	img.Data = data

	return img, nil
}

func readPoseAngle(c *tlv.Cursor) PoseAngle {
	yaw, _ := c.ReadUint8()
	pitch, _ := c.ReadUint8()
	roll, _ := c.ReadUint8()
	return PoseAngle{Yaw: yaw, Pitch: pitch, Roll: roll}
}

func readFeaturePoint(c *tlv.Cursor) FeaturePoint {
	var p FeaturePoint
	p.Type, _ = c.ReadUint8()
	code, _ := c.ReadUint8()
	p.Major, p.Minor = bits.Nibbles(code)
	p.X, _ = c.ReadUint16()
	p.Y, _ = c.ReadUint16()
	_ = c.Skip(2) // reserved
	return p
}
