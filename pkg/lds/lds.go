/*
Package lds decodes the biometric data groups of an ICAO 9303 Logical Data
Structure: DG2 (encoded face) and DG3 (encoded finger).

A data group is a BER-TLV envelope holding a Biometric Information Group
Template with one Biometric Information Template per instance. Each instance
pairs a Biometric Header Template with an ISO/IEC 19794 biometric data block:

	'75' (DG2) | '63' (DG3)
	  '7F61'
	    '02'   instance count
	    '7F60' (repeated)
	      'A1'   header: version, type, subtype, dates, format owner/type
	      '5F2E' biometric data block

The caller names the data group it holds; the outer tag is checked against
that kind before anything else is decoded. Every image payload in the result
is a copy, so the input buffer may be reused as soon as Decode returns.

Usage:

	group, err := lds.Decode(raw, lds.KindDG3)
	if err != nil {
		var rec *lds.RecordError
		if errors.As(err, &rec) {
			log.Printf("instance %d is broken", rec.Index)
		}
		return err
	}
	for _, f := range group.Fingers {
		fmt.Println(f.PositionLabel(), f.Resolution(), f.FileExtension())
	}
*/
package lds
