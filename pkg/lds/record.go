package lds

import (
	"fmt"

	"github.com/gregLibert/lds-biometrics/pkg/icao"
	"github.com/gregLibert/lds-biometrics/pkg/iso19794"
)

// Group is a decoded data group. Depending on Kind, either Faces or Fingers
// is filled, in encoding order.
type Group struct {
	Kind     Kind
	Faces    []FaceRecord
	Fingers  []FingerRecord
	Warnings []Warning
}

// Len returns the number of decoded images.
func (g *Group) Len() int {
	return len(g.Faces) + len(g.Fingers)
}

// FingerRecord is one finger image of a DG3 instance, with the header of
// the instance and the image settings of its data block.
type FingerRecord struct {
	Record int // zero-based position of the '7F60' template

	icao.Header
	iso19794.FingerImage

	Compression iso19794.Compression
	ScaleUnits  iso19794.ScaleUnits
	ResolutionH uint16 // image resolution, horizontal
	ResolutionV uint16 // image resolution, vertical
}

// PositionLabel names the finger ("Right thumb").
func (r FingerRecord) PositionLabel() string {
	return r.Position.String()
}

func (r FingerRecord) ICAOType() string {
	return r.TypeLabel()
}

func (r FingerRecord) ICAOSubtype() string {
	return r.SubtypeLabel()
}

// Resolution returns the image resolution as "VxH".
func (r FingerRecord) Resolution() string {
	return fmt.Sprintf("%dx%d", r.ResolutionV, r.ResolutionH)
}

// QualityLabel returns "N%" or "not reported".
func (r FingerRecord) QualityLabel() string {
	return r.Quality.String()
}

// FormatLabel names the compression of the image payload.
func (r FingerRecord) FormatLabel() string {
	return r.Compression.String()
}

func (r FingerRecord) FileExtension() string {
	return r.Compression.Extension()
}

// FaceRecord is one facial image of a DG2 instance.
type FaceRecord struct {
	Record int // zero-based position of the '7F60' template

	icao.Header
	iso19794.FaceImage
}

// PositionLabel names the face image type ("Full frontal").
func (r FaceRecord) PositionLabel() string {
	return r.ImageType.String()
}

func (r FaceRecord) ICAOType() string {
	return r.TypeLabel()
}

func (r FaceRecord) ICAOSubtype() string {
	return r.SubtypeLabel()
}

// Resolution returns the image size in pixels as "VxH" (height x width).
func (r FaceRecord) Resolution() string {
	return fmt.Sprintf("%dx%d", r.Height, r.Width)
}

// QualityLabel returns the vendor quality, "not reported" when zero.
func (r FaceRecord) QualityLabel() string {
	if r.Quality == 0 {
		return "not reported"
	}
	return fmt.Sprintf("%d", r.Quality)
}

// FormatLabel names the image encoding. It follows the image data type of
// the facial record, not the format type of the header.
func (r FaceRecord) FormatLabel() string {
	return r.DataType.String()
}

func (r FaceRecord) FileExtension() string {
	return r.DataType.Extension()
}
