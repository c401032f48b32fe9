package lds

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/moov-io/bertlv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gregLibert/lds-biometrics/internal/fixture"
	"github.com/gregLibert/lds-biometrics/pkg/icao"
	"github.com/gregLibert/lds-biometrics/pkg/iso19794"
	"github.com/gregLibert/lds-biometrics/pkg/tlv"
)

var (
	wsqImage = []byte{0xFF, 0xA0, 0xFF, 0xA8}
	jp2Image = []byte{0x00, 0x00, 0x00, 0x0C, 0x6A, 0x50}
)

const (
	subtypeRightThumb   = 0x05 // 001 01
	subtypeLeftPointer  = 0x0A // 010 10
	subtypeReservedNone = 0x18 // 110 00
)

func sampleDG3() []byte {
	return fixture.DG3([]byte{subtypeRightThumb, subtypeLeftPointer},
		fixture.FingerBlock(2, 500, 510,
			fixture.Finger{Position: 1, ViewCount: 1, Quality: 80, Width: 400, Height: 500, Image: wsqImage},
			fixture.Finger{Position: 6, ViewCount: 1, Quality: 100, Width: 400, Height: 500, Image: []byte{0x01, 0x02}},
		),
		fixture.FingerBlock(2, 500, 500,
			fixture.Finger{Position: 7, ViewCount: 1, Quality: 255, Impression: 1, Width: 410, Height: 510, Image: []byte{0x03}},
		),
	)
}

func sampleDG2() []byte {
	return fixture.DG2(
		fixture.FaceBlock(fixture.Face{
			ImageType: 1, DataType: 1, Width: 640, Height: 480, ColourSpace: 1, Source: 2,
			Points: [][2]uint16{{100, 120}},
			Image:  jp2Image,
		}),
		fixture.FaceBlock(fixture.Face{ImageType: 2, DataType: 0, Width: 240, Height: 320, Image: []byte{0xFF, 0xD8}}),
	)
}

func TestDecode_DG3(t *testing.T) {
	group, err := Decode(sampleDG3(), KindDG3)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if group.Kind != KindDG3 || group.Len() != 3 || len(group.Faces) != 0 {
		t.Fatalf("unexpected group shape: kind %v, %d fingers, %d faces", group.Kind, len(group.Fingers), len(group.Faces))
	}
	if len(group.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", group.Warnings)
	}

	want := FingerRecord{
		Record: 0,
		Header: icao.Header{
			Version:     []byte{0x01, 0x01},
			Type:        icao.TypeFingerprint,
			Subtype:     subtypeRightThumb,
			FormatOwner: 0x0101,
			FormatType:  0x0007,
		},
		FingerImage: iso19794.FingerImage{
			BlockLength: 18,
			Position:    iso19794.PositionRightThumb,
			ViewCount:   1,
			Quality:     80,
			Width:       400,
			Height:      500,
			Data:        wsqImage,
		},
		Compression: iso19794.CompressionWSQ,
		ScaleUnits:  iso19794.ScalePixelsPerInch,
		ResolutionH: 500,
		ResolutionV: 510,
	}
	if diff := cmp.Diff(want, group.Fingers[0]); diff != "" {
		t.Errorf("first finger mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		position   string
		record     int
		subtype    string
		resolution string
		quality    string
	}{
		{"Right thumb", 0, "Right Thumb", "510x500", "80%"},
		{"Left thumb", 0, "Right Thumb", "510x500", "100%"},
		{"Left index finger", 1, "Left Pointer finger", "500x500", "not reported"},
	}

	for i, tt := range tests {
		f := group.Fingers[i]
		checks := []struct{ name, got, want string }{
			{"PositionLabel", f.PositionLabel(), tt.position},
			{"ICAOType", f.ICAOType(), "Fingerprint"},
			{"ICAOSubtype", f.ICAOSubtype(), tt.subtype},
			{"Resolution", f.Resolution(), tt.resolution},
			{"QualityLabel", f.QualityLabel(), tt.quality},
			{"FormatLabel", f.FormatLabel(), "WSQ"},
			{"FileExtension", f.FileExtension(), ".wsq"},
		}
		for _, c := range checks {
			if c.got != c.want {
				t.Errorf("finger %d: %s() = %q, want %q", i, c.name, c.got, c.want)
			}
		}
		if f.Record != tt.record {
			t.Errorf("finger %d: Record = %d, want %d", i, f.Record, tt.record)
		}
		if len(f.Data) != int(f.BlockLength)-iso19794.FingerHeaderSize {
			t.Errorf("finger %d: %d image bytes, declared %d", i, len(f.Data), int(f.BlockLength)-iso19794.FingerHeaderSize)
		}
	}
}

func TestDecode_DG2(t *testing.T) {
	group, err := Decode(sampleDG2(), KindDG2)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if group.Len() != 2 || len(group.Fingers) != 0 {
		t.Fatalf("unexpected group shape: %d faces, %d fingers", len(group.Faces), len(group.Fingers))
	}
	if len(group.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", group.Warnings)
	}

	tests := []struct {
		record     int
		position   string
		resolution string
		format     string
		ext        string
		data       []byte
	}{
		{0, "Full frontal", "480x640", "JPEG2000", ".jp2", jp2Image},
		{1, "Token frontal", "320x240", "JPEG", ".jpg", []byte{0xFF, 0xD8}},
	}

	for i, tt := range tests {
		f := group.Faces[i]
		checks := []struct{ name, got, want string }{
			{"PositionLabel", f.PositionLabel(), tt.position},
			{"ICAOType", f.ICAOType(), "Unknown biometric type: 2"},
			{"ICAOSubtype", f.ICAOSubtype(), "No information given"},
			{"Resolution", f.Resolution(), tt.resolution},
			{"QualityLabel", f.QualityLabel(), "not reported"},
			{"FormatLabel", f.FormatLabel(), tt.format},
			{"FileExtension", f.FileExtension(), tt.ext},
		}
		for _, c := range checks {
			if c.got != c.want {
				t.Errorf("face %d: %s() = %q, want %q", i, c.name, c.got, c.want)
			}
		}
		if f.Record != tt.record {
			t.Errorf("face %d: Record = %d, want %d", i, f.Record, tt.record)
		}
		if !bytes.Equal(f.Data, tt.data) {
			t.Errorf("face %d: Data = % X, want % X", i, f.Data, tt.data)
		}
	}

	if got := len(group.Faces[0].FeaturePoints); got != 1 {
		t.Errorf("face 0: %d feature points, want 1", got)
	}
}

func TestDecode_WrongKind(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		kind Kind
	}{
		{"DG3 as dg2", sampleDG3(), KindDG2},
		{"DG2 as dg3", sampleDG2(), KindDG3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.raw, tt.kind)
			if !errors.Is(err, tlv.ErrUnexpectedTag) {
				t.Fatalf("error = %v, want ErrUnexpectedTag", err)
			}

			var rec *RecordError
			if errors.As(err, &rec) {
				t.Errorf("envelope errors must not be attributed to a record: %v", err)
			}
			if !IsStructural(err) {
				t.Errorf("IsStructural(%v) = false", err)
			}
		})
	}
}

func TestDecode_InvalidKind(t *testing.T) {
	_, err := Decode(sampleDG3(), Kind(9))
	if !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("error = %v, want ErrUnknownKind", err)
	}
	if IsStructural(err) {
		t.Errorf("an invalid kind is not a structural error")
	}
}

func TestDecode_EveryTruncationFails(t *testing.T) {
	samples := []struct {
		name string
		raw  []byte
		kind Kind
	}{
		{"DG2", sampleDG2(), KindDG2},
		{"DG3", sampleDG3(), KindDG3},
	}

	for _, s := range samples {
		t.Run(s.name, func(t *testing.T) {
			for n := 0; n < len(s.raw); n++ {
				group, err := Decode(s.raw[:n], s.kind)
				if err == nil {
					t.Fatalf("prefix of %d/%d bytes decoded to %d images", n, len(s.raw), group.Len())
				}
				if !IsStructural(err) {
					t.Fatalf("prefix of %d bytes: %v is not structural", n, err)
				}
			}
		})
	}
}

func TestDecode_CopiesInput(t *testing.T) {
	raw := sampleDG3()
	group, err := Decode(raw, KindDG3)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	for i := range raw {
		raw[i] = 0xEE
	}

	if !bytes.Equal(group.Fingers[0].Data, wsqImage) {
		t.Errorf("image changed with the input buffer: % X", group.Fingers[0].Data)
	}
	if !bytes.Equal(group.Fingers[0].Version, []byte{0x01, 0x01}) {
		t.Errorf("header version changed with the input buffer: % X", group.Fingers[0].Version)
	}
}

func TestDecode_Deterministic(t *testing.T) {
	raw := sampleDG2()

	first, err := Decode(raw, KindDG2)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	second, err := Decode(raw, KindDG2)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second decode differs (-first +second):\n%s", diff)
	}
}

func TestDecoder_Concurrent(t *testing.T) {
	d := NewDecoder()
	inputs := [][]byte{sampleDG3(), fixture.DG3(nil, fixture.FingerBlock(3, 1000, 1000, fixture.Finger{Position: 10, Image: wsqImage}))}

	var want []*Group
	for _, raw := range inputs {
		g, err := d.Decode(raw, KindDG3)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		want = append(want, g)
	}

	const workers = 8
	got := make([]*Group, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			got[w], errs[w] = d.Decode(bytes.Clone(inputs[w%len(inputs)]), KindDG3)
		}(w)
	}
	wg.Wait()

	for w := 0; w < workers; w++ {
		if errs[w] != nil {
			t.Fatalf("worker %d: %v", w, errs[w])
		}
		if diff := cmp.Diff(want[w%len(inputs)], got[w]); diff != "" {
			t.Errorf("worker %d mismatch (-want +got):\n%s", w, diff)
		}
	}
}

func TestDecode_StructuralErrors(t *testing.T) {
	finger := fixture.FingerBlock(2, 500, 500, fixture.Finger{Position: 1, Image: wsqImage})
	header := []bertlv.TLV{
		{Tag: "81", Value: []byte{0x08}},
		{Tag: "87", Value: []byte{0x01, 0x01}},
		{Tag: "88", Value: []byte{0x00, 0x07}},
	}
	template := fixture.Instance{Type: 0x08, FormatType: 0x0007, Block: finger}.Template()

	tests := []struct {
		name       string
		raw        []byte
		wantErr    error
		wantRecord int // -1 when the failure is outside any record
	}{
		{
			name:       "Missing group template",
			raw:        fixture.Encode(bertlv.TLV{Tag: "63", TLVs: []bertlv.TLV{{Tag: "02", Value: []byte{0x01}}}}),
			wantErr:    ErrMissingTemplate,
			wantRecord: -1,
		},
		{
			name: "Missing instance count",
			raw: fixture.Encode(bertlv.TLV{Tag: "63", TLVs: []bertlv.TLV{
				{Tag: "7F61", TLVs: []bertlv.TLV{template}},
			}}),
			wantErr:    ErrInstanceCount,
			wantRecord: -1,
		},
		{
			name: "Count above templates",
			raw: fixture.Encode(bertlv.TLV{Tag: "63", TLVs: []bertlv.TLV{
				{Tag: "7F61", TLVs: []bertlv.TLV{{Tag: "02", Value: []byte{0x02}}, template}},
			}}),
			wantErr:    ErrInstanceCount,
			wantRecord: -1,
		},
		{
			name: "Two-byte count",
			raw: fixture.Encode(bertlv.TLV{Tag: "63", TLVs: []bertlv.TLV{
				{Tag: "7F61", TLVs: []bertlv.TLV{{Tag: "02", Value: []byte{0x00, 0x01}}, template}},
			}}),
			wantErr:    ErrInstanceCount,
			wantRecord: -1,
		},
		{
			name:       "Trailing bytes after envelope",
			raw:        append(fixture.DG3(nil, finger), 0x00),
			wantErr:    tlv.ErrTruncatedTLV,
			wantRecord: -1,
		},
		{
			name: "Enciphered block",
			raw: fixture.DataGroup("63", bertlv.TLV{Tag: "7F60", TLVs: []bertlv.TLV{
				{Tag: "A1", TLVs: header},
				{Tag: "7F2E", TLVs: []bertlv.TLV{{Tag: "81", Value: []byte{0xDE, 0xAD}}}},
			}}),
			wantErr:    ErrEncipheredBlock,
			wantRecord: 0,
		},
		{
			name: "Missing header template",
			raw: fixture.DataGroup("63", bertlv.TLV{Tag: "7F60", TLVs: []bertlv.TLV{
				{Tag: "5F2E", Value: finger},
			}}),
			wantErr:    icao.ErrMissingHeader,
			wantRecord: 0,
		},
		{
			name: "Missing data block",
			raw: fixture.DataGroup("63", bertlv.TLV{Tag: "7F60", TLVs: []bertlv.TLV{
				{Tag: "A1", TLVs: header},
			}}),
			wantErr:    ErrMissingTemplate,
			wantRecord: 0,
		},
		{
			name:       "Second block truncated",
			raw:        fixture.DG3(nil, finger, finger[:40]),
			wantErr:    iso19794.ErrImagePayloadTruncated,
			wantRecord: 1,
		},
		{
			name:       "Face block in DG3",
			raw:        fixture.DG3(nil, fixture.FaceBlock(fixture.Face{Image: jp2Image})),
			wantErr:    iso19794.ErrFormatIdentifier,
			wantRecord: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.raw, KindDG3)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if !IsStructural(err) {
				t.Errorf("IsStructural(%v) = false", err)
			}

			var rec *RecordError
			switch {
			case tt.wantRecord < 0 && errors.As(err, &rec):
				t.Errorf("unexpected record attribution: %v", err)
			case tt.wantRecord >= 0 && !errors.As(err, &rec):
				t.Errorf("error %v is not a *RecordError", err)
			case tt.wantRecord >= 0 && rec.Index != tt.wantRecord:
				t.Errorf("RecordError.Index = %d, want %d", rec.Index, tt.wantRecord)
			}

			var offErr *tlv.OffsetError
			if !errors.As(err, &offErr) {
				t.Errorf("error %v carries no offset", err)
			}
		})
	}
}

func TestDecoder_MaxRecords(t *testing.T) {
	finger := fixture.FingerBlock(2, 500, 500, fixture.Finger{Position: 1, Image: wsqImage})
	raw := fixture.DG3(nil, finger, finger)

	if _, err := NewDecoder(WithMaxRecords(2)).Decode(raw, KindDG3); err != nil {
		t.Fatalf("Decode within the limit failed: %v", err)
	}

	_, err := NewDecoder(WithMaxRecords(1)).Decode(raw, KindDG3)
	if !errors.Is(err, ErrInstanceCount) {
		t.Fatalf("error = %v, want ErrInstanceCount", err)
	}
}

// checkWarnings compares record, code and sentinel of each warning.
func checkWarnings(t *testing.T, got, want []Warning) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d warnings, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i].Record != want[i].Record || got[i].Code != want[i].Code || !errors.Is(got[i], want[i].Err) {
			t.Errorf("warning %d = {%d %d %v}, want {%d %d %v}", i,
				got[i].Record, got[i].Code, got[i].Err, want[i].Record, want[i].Code, want[i].Err)
		}
	}

	var offErr *tlv.OffsetError
	for i, w := range got {
		if !errors.As(w, &offErr) {
			t.Errorf("warning %d carries no offset: %v", i, w)
		}
	}
}

func unknownPositionDG3() []byte {
	return fixture.DG3([]byte{subtypeRightThumb},
		fixture.FingerBlock(2, 500, 500,
			fixture.Finger{Position: 1, Quality: 60, Image: wsqImage},
			fixture.Finger{Position: 42, Quality: 70, Image: wsqImage},
		),
	)
}

func TestDecode_PermissiveKeepsUnknownPosition(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	d := NewDecoder(WithLogger(zap.New(core)))

	group, err := d.Decode(unknownPositionDG3(), KindDG3)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if group.Len() != 2 {
		t.Fatalf("got %d fingers, want 2", group.Len())
	}
	if got := group.Fingers[1].PositionLabel(); got != "Unknown(42)" {
		t.Errorf("PositionLabel() = %q, want %q", got, "Unknown(42)")
	}

	checkWarnings(t, group.Warnings, []Warning{{Record: 0, Code: 42, Err: iso19794.ErrUnknownFingerPosition}})

	entries := logs.FilterMessage("advisory finding").All()
	if len(entries) != 1 {
		t.Fatalf("got %d advisory log entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["kind"] != "dg3" || fields["record"] != int64(0) || fields["code"] != uint32(42) {
		t.Errorf("unexpected log fields: %v", fields)
	}
}

func TestDecode_StrictRejectsUnknownPosition(t *testing.T) {
	_, err := NewDecoder(WithStrict(true)).Decode(unknownPositionDG3(), KindDG3)

	if !errors.Is(err, ErrStrictProfile) {
		t.Fatalf("error = %v, want ErrStrictProfile", err)
	}
	if !errors.Is(err, iso19794.ErrUnknownFingerPosition) {
		t.Errorf("error %v does not name the advisory", err)
	}
	if IsStructural(err) {
		t.Errorf("strict rejections are not structural: %v", err)
	}

	var rec *RecordError
	if !errors.As(err, &rec) || rec.Index != 0 {
		t.Errorf("error %v is not attributed to record 0", err)
	}
}

func TestDecode_HeaderAdvisories(t *testing.T) {
	block := fixture.FingerBlock(2, 500, 500, fixture.Finger{Position: 1, Image: wsqImage})
	raw := fixture.DataGroup("63",
		fixture.Instance{Type: 0x08, Subtype: subtypeRightThumb, FormatType: 0x0007, Block: block}.Template(),
		fixture.Instance{Type: 0x02, Subtype: subtypeReservedNone, FormatType: 0x0007, Block: block}.Template(),
	)

	group, err := Decode(raw, KindDG3)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	checkWarnings(t, group.Warnings, []Warning{
		{Record: 1, Code: 2, Err: ErrUnexpectedType},
		{Record: 1, Code: subtypeReservedNone, Err: ErrReservedSubtype},
	})
	if got := group.Fingers[1].ICAOSubtype(); got != "Reserved for future use" {
		t.Errorf("ICAOSubtype() = %q", got)
	}

	_, err = NewDecoder(WithStrict(true)).Decode(raw, KindDG3)
	if !errors.Is(err, ErrUnexpectedType) || !errors.Is(err, ErrStrictProfile) {
		t.Errorf("strict error = %v, want ErrStrictProfile wrapping ErrUnexpectedType", err)
	}
}

func TestDecode_LogsSummary(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	if _, err := NewDecoder(WithLogger(zap.New(core))).Decode(sampleDG2(), KindDG2); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	entries := logs.FilterMessage("decoded data group").All()
	if len(entries) != 1 {
		t.Fatalf("got %d summary entries, want 1", len(entries))
	}
	if entries[0].Level != zapcore.DebugLevel {
		t.Errorf("summary logged at %v, want debug", entries[0].Level)
	}
	fields := entries[0].ContextMap()
	if fields["images"] != int64(2) || fields["instances"] != int64(2) {
		t.Errorf("unexpected summary fields: %v", fields)
	}
	if n := logs.FilterLevelExact(zapcore.WarnLevel).Len(); n != 0 {
		t.Errorf("got %d warnings for a clean group", n)
	}
}
