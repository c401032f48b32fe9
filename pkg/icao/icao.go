/*
Package icao decodes the ICAO Doc 9303 Biometric Header Template (BHT, tag
'A1') that precedes every biometric data block in DG2, DG3 and DG4, and maps
its CBEFF biometric type and subtype codes to the descriptions of NIST IR
6529-A.

# Biometric Header Template

	'A1' BHT
	  '80' ICAO header version        (2 bytes, optional)
	  '81' biometric type             (1 to 3 bytes, optional)
	  '82' biometric subtype          (1 byte, optional)
	  '83' creation date and time     (7 bytes, optional)
	  '85' validity period            (8 bytes, optional)
	  '86' creator of the template    (2 bytes, optional)
	  '87' format owner               (2 bytes, mandatory)
	  '88' format type                (2 bytes, mandatory)

# Subtype bit layout (NIST IR 6529-A Table 6)

	b8 b7 b6 | b5 b4 b3     | b2 b1
	reserved | finger type  | position
	         | 000 no meaning  01 right
	         | 001 thumb       10 left
	         | 010 pointer
	         | 011 middle
	         | 100 ring
	         | 101 little
	         | 11x reserved

Unknown type codes and reserved subtypes are not errors: they stringify as
"Unknown biometric type: N" and "Reserved for future use".
*/
package icao
