// Package fixture builds synthetic DG2/DG3 data groups for tests.
//
// The ISO/IEC 19794 blocks are assembled byte by byte; the BER-TLV
// envelope is produced by github.com/moov-io/bertlv so the decoder is
// always exercised against an independent encoder.
package fixture

import (
	"encoding/binary"
	"fmt"

	"github.com/moov-io/bertlv"
)

// Finger describes one finger record of a 19794-4 block.
type Finger struct {
	Position   uint8
	ViewCount  uint8
	ViewNumber uint8
	Quality    uint8
	Impression uint8
	Width      uint16
	Height     uint16
	Image      []byte
}

// FingerRecord encodes the 14-byte finger header followed by the image.
func FingerRecord(f Finger) []byte {
	out := binary.BigEndian.AppendUint32(nil, uint32(14+len(f.Image)))
	out = append(out, f.Position, f.ViewCount, f.ViewNumber, f.Quality, f.Impression)
	out = binary.BigEndian.AppendUint16(out, f.Width)
	out = binary.BigEndian.AppendUint16(out, f.Height)
	out = append(out, 0x00)
	return append(out, f.Image...)
}

// FingerBlock encodes a 19794-4 finger image block using the given
// horizontal and vertical resolutions (ppi) for both scan and image.
func FingerBlock(compression uint8, resH, resV uint16, fingers ...Finger) []byte {
	var body []byte
	for _, f := range fingers {
		body = append(body, FingerRecord(f)...)
	}

	length := uint64(32 + len(body))
	out := []byte("FIR\x00010\x00")
	out = append(out, byte(length>>40), byte(length>>32), byte(length>>24), byte(length>>16), byte(length>>8), byte(length))
	out = binary.BigEndian.AppendUint16(out, 0x0000) // capture device
	out = binary.BigEndian.AppendUint16(out, 31)     // acquisition level
	out = append(out, byte(len(fingers)), 0x01)      // finger count, ppi
	out = binary.BigEndian.AppendUint16(out, resH)
	out = binary.BigEndian.AppendUint16(out, resV)
	out = binary.BigEndian.AppendUint16(out, resH)
	out = binary.BigEndian.AppendUint16(out, resV)
	out = append(out, 8, compression, 0x00, 0x00)
	return append(out, body...)
}

// Face describes one facial record of a 19794-5 block.
type Face struct {
	Gender      uint8
	EyeColour   uint8
	HairColour  uint8
	FeatureMask uint32
	Expression  uint16
	Points      [][2]uint16 // x, y of each feature point
	ImageType   uint8
	DataType    uint8
	Width       uint16
	Height      uint16
	ColourSpace uint8
	Source      uint8
	Image       []byte
}

// FaceRecord encodes facial information, feature points, image information and image.
func FaceRecord(f Face) []byte {
	length := 20 + 8*len(f.Points) + 12 + len(f.Image)

	out := binary.BigEndian.AppendUint32(nil, uint32(length))
	out = binary.BigEndian.AppendUint16(out, uint16(len(f.Points)))
	out = append(out, f.Gender, f.EyeColour, f.HairColour)
	out = append(out, byte(f.FeatureMask>>16), byte(f.FeatureMask>>8), byte(f.FeatureMask))
	out = binary.BigEndian.AppendUint16(out, f.Expression)
	out = append(out, 0, 0, 0, 0, 0, 0) // pose angle and uncertainty unspecified

	for i, p := range f.Points {
		out = append(out, 0x01, byte(0x40|(i+1)&0x0F)) // type 1, major 4
		out = binary.BigEndian.AppendUint16(out, p[0])
		out = binary.BigEndian.AppendUint16(out, p[1])
		out = append(out, 0x00, 0x00)
	}

	out = append(out, f.ImageType, f.DataType)
	out = binary.BigEndian.AppendUint16(out, f.Width)
	out = binary.BigEndian.AppendUint16(out, f.Height)
	out = append(out, f.ColourSpace, f.Source)
	out = binary.BigEndian.AppendUint16(out, 0x0000) // device type
	out = binary.BigEndian.AppendUint16(out, 0x0000) // quality
	return append(out, f.Image...)
}

// FaceBlock encodes a 19794-5 facial image block.
func FaceBlock(faces ...Face) []byte {
	var body []byte
	for _, f := range faces {
		body = append(body, FaceRecord(f)...)
	}

	out := []byte("FAC\x00010\x00")
	out = binary.BigEndian.AppendUint32(out, uint32(14+len(body)))
	out = binary.BigEndian.AppendUint16(out, uint16(len(faces)))
	return append(out, body...)
}

// Instance is one Biometric Information Template ('7F60').
type Instance struct {
	Type       byte
	Subtype    byte
	FormatType uint16
	Block      []byte
	Extra      []bertlv.TLV // appended to the header template
}

// Template returns the '7F60' TLV of the instance.
func (i Instance) Template() bertlv.TLV {
	header := []bertlv.TLV{
		{Tag: "80", Value: []byte{0x01, 0x01}},
		{Tag: "81", Value: []byte{i.Type}},
		{Tag: "82", Value: []byte{i.Subtype}},
		{Tag: "87", Value: []byte{0x01, 0x01}},
		{Tag: "88", Value: binary.BigEndian.AppendUint16(nil, i.FormatType)},
	}
	header = append(header, i.Extra...)

	return bertlv.TLV{Tag: "7F60", TLVs: []bertlv.TLV{
		{Tag: "A1", TLVs: header},
		{Tag: "5F2E", Value: i.Block},
	}}
}

// DataGroup encodes a DG envelope (tag "75" or "63") holding the given templates.
func DataGroup(tag string, templates ...bertlv.TLV) []byte {
	group := []bertlv.TLV{{Tag: "02", Value: []byte{byte(len(templates))}}}
	group = append(group, templates...)
	return Encode(bertlv.TLV{Tag: tag, TLVs: []bertlv.TLV{{Tag: "7F61", TLVs: group}}})
}

// DG2 encodes a facial data group with one instance per block.
func DG2(blocks ...[]byte) []byte {
	var templates []bertlv.TLV
	for _, b := range blocks {
		templates = append(templates, Instance{Type: 0x02, FormatType: 0x0008, Block: b}.Template())
	}
	return DataGroup("75", templates...)
}

// DG3 encodes a fingerprint data group with one instance per block.
func DG3(subtypes []byte, blocks ...[]byte) []byte {
	var templates []bertlv.TLV
	for i, b := range blocks {
		var subtype byte
		if i < len(subtypes) {
			subtype = subtypes[i]
		}
		templates = append(templates, Instance{Type: 0x08, Subtype: subtype, FormatType: 0x0007, Block: b}.Template())
	}
	return DataGroup("63", templates...)
}

// Encode wraps bertlv.Encode and panics on failure.
func Encode(packets ...bertlv.TLV) []byte {
	raw, err := bertlv.Encode(packets)
	if err != nil {
		panic(fmt.Sprintf("fixture encoding failed: %v", err))
	}
	return raw
}
