/*
Package iso19794 decodes the biometric data blocks (BDB) carried by ICAO
data groups: finger images per ISO/IEC 19794-4:2005 (DG3) and facial images
per ISO/IEC 19794-5:2005 (DG2).

Both formats start with a general record header naming the format ("FIR\0"
or "FAC\0"), its version ("010\0") and the record length, followed by one
or more image records. Each image record declares its own length, which
covers a fixed header and the image payload:

	finger record: 14-byte header | image (WSQ, JPEG, JPEG2000, ...)
	face record:   20-byte facial information | 8 bytes per feature point |
	               12-byte image information | image (JPEG or JPEG2000)

Images are returned as opaque copies of the payload bytes; no codec runs.

Decoding stops at the first structural failure. Advisory findings, such as
a reserved finger position code, are collected alongside the results and
keep the raw code.
*/
package iso19794

import (
	"errors"

	"github.com/gregLibert/lds-biometrics/pkg/tlv"
)

var (
	ErrHeaderTooShort        = errors.New("header too short")
	ErrImagePayloadTruncated = errors.New("image payload truncated")
	ErrFormatIdentifier      = errors.New("unexpected format identifier")
	ErrUnsupportedVersion    = errors.New("unsupported format version")
	ErrTrailingData          = errors.New("trailing data after last record")

	// ErrUnknownFingerPosition is advisory: the record is still decoded.
	ErrUnknownFingerPosition = errors.New("unknown finger position")
)

// Version2005 is the only record version understood by this package.
var Version2005 = []byte{'0', '1', '0', 0x00}

// readGeneralHeader checks the fixed part shared by both formats: format
// identifier and version.
func readGeneralHeader(c *tlv.Cursor, size int, identifier string) (id, version []byte, err error) {
	start := c.Offset()
	if c.Remaining() < size {
		return nil, nil, tlv.NewError(ErrHeaderTooShort, start, "general header needs %d bytes, %d remain", size, c.Remaining())
	}

	id, _ = c.ReadSlice(4)
	if string(id) != identifier {
		return nil, nil, tlv.NewError(ErrFormatIdentifier, start, "expected %q, found %q", identifier, tlv.MakeSafeASCII(id))
	}

	version, _ = c.ReadSlice(4)
	if string(version) != string(Version2005) {
		return nil, nil, tlv.NewError(ErrUnsupportedVersion, start+4, "version %q", tlv.MakeSafeASCII(version))
	}

	return clone(id), clone(version), nil
}

// recordCursor restricts c to the declared record length. headerSize bytes
// of the record have already been consumed.
func recordCursor(c *tlv.Cursor, start int, recordLength uint64, headerSize int) (*tlv.Cursor, error) {
	if recordLength < uint64(headerSize) {
		return nil, tlv.NewError(ErrHeaderTooShort, start, "record length %d is smaller than the %d-byte header", recordLength, headerSize)
	}
	body := recordLength - uint64(headerSize)
	if body > uint64(c.Remaining()) {
		return nil, tlv.NewError(ErrImagePayloadTruncated, start, "record declares %d bytes, block holds %d", recordLength, uint64(headerSize+c.Remaining()))
	}
	if body < uint64(c.Remaining()) {
		return nil, tlv.NewError(ErrTrailingData, start+int(recordLength), "%d bytes after the %d-byte record", uint64(c.Remaining())-body, recordLength)
	}
	return c.Sub(int(body))
}

// readPayload copies the image bytes following a record header.
func readPayload(c *tlv.Cursor, start int, blockLength uint64, headerSize int) ([]byte, error) {
	if blockLength < uint64(headerSize) {
		return nil, tlv.NewError(ErrHeaderTooShort, start, "block length %d is smaller than the %d-byte header", blockLength, headerSize)
	}
	size := blockLength - uint64(headerSize)
	if size > uint64(c.Remaining()) {
		return nil, tlv.NewError(ErrImagePayloadTruncated, c.Offset(), "image declares %d bytes, %d remain", size, c.Remaining())
	}
	data, err := c.ReadSlice(int(size))
	if err != nil {
		return nil, err
	}
	return clone(data), nil
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
