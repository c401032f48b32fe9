package iso19794

import (
	"fmt"

	"github.com/gregLibert/lds-biometrics/pkg/tlv"
)

// Fixed sizes of ISO/IEC 19794-4:2005 structures.
const (
	FingerGeneralHeaderSize = 32
	FingerHeaderSize        = 14
)

// FingerIdentifier opens every finger image record.
const FingerIdentifier = "FIR\x00"

// FingerGeneralHeader is the general record header of a finger image block.
type FingerGeneralHeader struct {
	FormatIdentifier []byte `fmt:"ascii"`
	Version          []byte `fmt:"ascii"`
	RecordLength     uint64
	CaptureDeviceID  uint16
	AcquisitionLevel uint16
	FingerCount      uint8
	ScaleUnits       ScaleUnits
	ScanResolutionH  uint16
	ScanResolutionV  uint16
	ImageResolutionH uint16
	ImageResolutionV uint16
	PixelDepth       uint8
	Compression      Compression
}

// FingerImage is one finger record of a finger image block.
type FingerImage struct {
	BlockLength uint32
	Position    FingerPosition
	ViewCount   uint8
	ViewNumber  uint8
	Quality     Quality
	Impression  Impression
	Width       uint16 // horizontal line length, in pixels
	Height      uint16 // vertical line length, in pixels
	Data        []byte `fmt:"len"`
}

// FingerBlock is a decoded finger image biometric data block.
type FingerBlock struct {
	Header   FingerGeneralHeader
	Images   []FingerImage
	Warnings []error // one per image with an unknown position, in image order
}

// DecodeFingerBlock decodes a complete ISO/IEC 19794-4:2005 block.
// The cursor must cover exactly the block.
func DecodeFingerBlock(c *tlv.Cursor) (*FingerBlock, error) {
	start := c.Offset()

	header, err := ReadFingerGeneralHeader(c)
	if err != nil {
		return nil, err
	}

	body, err := recordCursor(c, start, header.RecordLength, FingerGeneralHeaderSize)
	if err != nil {
		return nil, err
	}

	block := &FingerBlock{Header: header}
	for i := 0; i < int(header.FingerCount); i++ {
		offset := body.Offset()
		image, err := DecodeFingerImage(body)
		if err != nil {
			return nil, fmt.Errorf("finger %d: %w", i, err)
		}
		if !image.Position.Known() {
			block.Warnings = append(block.Warnings,
				tlv.NewError(ErrUnknownFingerPosition, offset+4, "finger %d: code %d", i, uint8(image.Position)))
		}
		block.Images = append(block.Images, image)
	}

	if body.Remaining() > 0 {
		return nil, tlv.NewError(ErrTrailingData, body.Offset(), "%d bytes after %d finger records", body.Remaining(), header.FingerCount)
	}

	return block, nil
}

// ReadFingerGeneralHeader reads the 32-byte general record header.
func ReadFingerGeneralHeader(c *tlv.Cursor) (FingerGeneralHeader, error) {
	id, version, err := readGeneralHeader(c, FingerGeneralHeaderSize, FingerIdentifier)
	if err != nil {
		return FingerGeneralHeader{}, err
	}

	// The size was checked above, the reads below cannot fail.
	h := FingerGeneralHeader{FormatIdentifier: id, Version: version}
	h.RecordLength, _ = c.ReadUint48()
	h.CaptureDeviceID, _ = c.ReadUint16()
	h.AcquisitionLevel, _ = c.ReadUint16()
	h.FingerCount, _ = c.ReadUint8()
	scale, _ := c.ReadUint8()
	h.ScaleUnits = ScaleUnits(scale)
	h.ScanResolutionH, _ = c.ReadUint16()
	h.ScanResolutionV, _ = c.ReadUint16()
	h.ImageResolutionH, _ = c.ReadUint16()
	h.ImageResolutionV, _ = c.ReadUint16()
	h.PixelDepth, _ = c.ReadUint8()
	compression, _ := c.ReadUint8()
	h.Compression = Compression(compression)
	_ = c.Skip(2) // reserved

	return h, nil
}

// DecodeFingerImage reads one finger record: the 14-byte header, then
// BlockLength-14 image bytes.
//
// Reserved position codes are kept as-is; see FingerPosition.Known.
func DecodeFingerImage(c *tlv.Cursor) (FingerImage, error) {
	start := c.Offset()
	if c.Remaining() < FingerHeaderSize {
		return FingerImage{}, tlv.NewError(ErrHeaderTooShort, start, "finger header needs %d bytes, %d remain", FingerHeaderSize, c.Remaining())
	}

	var img FingerImage
	img.BlockLength, _ = c.ReadUint32()
	position, _ := c.ReadUint8()
	img.Position = FingerPosition(position)
	img.ViewCount, _ = c.ReadUint8()
	img.ViewNumber, _ = c.ReadUint8()
	quality, _ := c.ReadUint8()
	img.Quality = Quality(quality)
	impression, _ := c.ReadUint8()
	img.Impression = Impression(impression)
	img.Width, _ = c.ReadUint16()
	img.Height, _ = c.ReadUint16()
	_ = c.Skip(1) // reserved

	data, err := readPayload(c, start, uint64(img.BlockLength), FingerHeaderSize)
	if err != nil {
		return FingerImage{}, err
	}
	img.Data = data

	return img, nil
}
