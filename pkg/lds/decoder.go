package lds

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/gregLibert/lds-biometrics/pkg/icao"
	"github.com/gregLibert/lds-biometrics/pkg/iso19794"
	"github.com/gregLibert/lds-biometrics/pkg/tlv"
)

// Decoder decodes DG2 and DG3 buffers. It holds no state between calls and
// is safe for concurrent use.
type Decoder struct {
	logger     *zap.Logger
	strict     bool
	maxRecords int
}

// NewDecoder returns a permissive Decoder with a no-op logger, adjusted by opts.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{
		logger:     zap.NewNop(),
		maxRecords: DefaultMaxRecords,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var defaultDecoder = NewDecoder()

// Decode decodes buf as a data group of the given kind with default options.
func Decode(buf []byte, kind Kind) (*Group, error) {
	return defaultDecoder.Decode(buf, kind)
}

// Decode decodes buf as a data group of the given kind.
//
// The first fatal error stops decoding. Failures inside an instance are
// returned as *RecordError carrying the instance index.
func (d *Decoder) Decode(buf []byte, kind Kind) (*Group, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	envelope, err := tlv.ParseEnvelope(buf, kind.Tag())
	if err != nil {
		return nil, fmt.Errorf("%s envelope: %w", kind, err)
	}

	templates, err := d.instances(envelope)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}

	group := &Group{Kind: kind}
	for i, template := range templates {
		if err := d.decodeInstance(group, i, template); err != nil {
			return nil, &RecordError{Index: i, Err: err}
		}
	}

	d.logger.Debug("decoded data group",
		zap.Stringer("kind", kind),
		zap.Int("instances", len(templates)),
		zap.Int("images", group.Len()),
		zap.Int("warnings", len(group.Warnings)))

	return group, nil
}

// instances locates the '7F60' templates and checks them against the declared count.
func (d *Decoder) instances(envelope tlv.Node) ([]tlv.Node, error) {
	group, ok := envelope.FindChild(icao.TagBiometricGroup)
	if !ok {
		return nil, tlv.NewError(ErrMissingTemplate, envelope.ValueOffset, "%s not found", icao.TagBiometricGroup)
	}

	countNode, ok := group.FindChild(icao.TagInstanceCount)
	if !ok {
		return nil, tlv.NewError(ErrInstanceCount, group.ValueOffset, "%s not found", icao.TagInstanceCount)
	}
	if len(countNode.Value) != 1 {
		return nil, tlv.NewError(ErrInstanceCount, countNode.Offset, "count is %d bytes long, want 1", len(countNode.Value))
	}

	count := int(countNode.Value[0])
	if count > d.maxRecords {
		return nil, tlv.NewError(ErrInstanceCount, countNode.ValueOffset, "%d instances exceed the limit of %d", count, d.maxRecords)
	}

	templates := group.FindChildren(icao.TagBiometricInfo)
	if len(templates) != count {
		return nil, tlv.NewError(ErrInstanceCount, countNode.ValueOffset, "declared %d, found %d %s templates", count, len(templates), icao.TagBiometricInfo)
	}

	return templates, nil
}

func (d *Decoder) decodeInstance(group *Group, index int, template tlv.Node) error {
	if cipher, ok := template.FindChild(icao.TagBiometricDataCipher); ok {
		return tlv.NewError(ErrEncipheredBlock, cipher.Offset, "%s is not supported", cipher.Tag)
	}

	bht, ok := template.FindChild(icao.TagHeaderTemplate)
	if !ok {
		return tlv.NewError(icao.ErrMissingHeader, template.ValueOffset, "%s not found", icao.TagHeaderTemplate)
	}
	header, err := icao.DecodeHeader(bht)
	if err != nil {
		return err
	}
	if err := d.checkHeader(group, index, bht, header); err != nil {
		return err
	}

	bdb, ok := template.FindChild(icao.TagBiometricData)
	if !ok {
		return tlv.NewError(ErrMissingTemplate, template.ValueOffset, "%s not found", icao.TagBiometricData)
	}
	c := tlv.NewCursorAt(bdb.Value, bdb.ValueOffset)

	switch group.Kind {
	case KindDG2:
		return d.decodeFaces(group, index, header, c)
	default:
		return d.decodeFingers(group, index, header, c)
	}
}

func (d *Decoder) checkHeader(group *Group, index int, bht tlv.Node, h icao.Header) error {
	if want := group.Kind.biometricType(); h.Type != icao.TypeNoInformation && h.Type != want {
		finding := tlv.NewError(ErrUnexpectedType, bht.Offset, "found %d, want %d for %s", h.Type, want, group.Kind)
		if err := d.advise(group, Warning{Record: index, Code: h.Type, Err: finding}); err != nil {
			return err
		}
	}

	if h.Subtype.Reserved() {
		finding := tlv.NewError(ErrReservedSubtype, bht.Offset, "%s (0x%02X)", h.Subtype, uint8(h.Subtype))
		if err := d.advise(group, Warning{Record: index, Code: uint32(h.Subtype), Err: finding}); err != nil {
			return err
		}
	}

	return nil
}

func (d *Decoder) decodeFingers(group *Group, index int, header icao.Header, c *tlv.Cursor) error {
	block, err := iso19794.DecodeFingerBlock(c)
	if err != nil {
		return err
	}

	unknown := 0
	for _, image := range block.Images {
		if !image.Position.Known() && unknown < len(block.Warnings) {
			w := Warning{Record: index, Code: uint32(image.Position), Err: block.Warnings[unknown]}
			unknown++
			if err := d.advise(group, w); err != nil {
				return err
			}
		}

		group.Fingers = append(group.Fingers, FingerRecord{
			Record:      index,
			Header:      header,
			FingerImage: image,
			Compression: block.Header.Compression,
			ScaleUnits:  block.Header.ScaleUnits,
			ResolutionH: block.Header.ImageResolutionH,
			ResolutionV: block.Header.ImageResolutionV,
		})
	}

	return nil
}

func (d *Decoder) decodeFaces(group *Group, index int, header icao.Header, c *tlv.Cursor) error {
	block, err := iso19794.DecodeFaceBlock(c)
	if err != nil {
		return err
	}

	for _, image := range block.Images {
		group.Faces = append(group.Faces, FaceRecord{
			Record:    index,
			Header:    header,
			FaceImage: image,
		})
	}

	return nil
}

// advise logs an advisory finding and records it, or rejects it in strict mode.
func (d *Decoder) advise(group *Group, w Warning) error {
	d.logger.Warn("advisory finding",
		zap.Stringer("kind", group.Kind),
		zap.Int("record", w.Record),
		zap.Uint32("code", w.Code),
		zap.Error(w.Err))

	if d.strict {
		return fmt.Errorf("%w: %w", ErrStrictProfile, w.Err)
	}
	group.Warnings = append(group.Warnings, w)
	return nil
}
