// Package bits provides helpers for the bit-numbered fields found in ISO and
// ICAO tables, where bits are counted from 1 (least significant) to 8.
package bits

// Bit returns a byte with only the n-th bit set (1 to 8).
func Bit(n uint) byte {
	if n < 1 || n > 8 {
		return 0
	}
	return 1 << (n - 1)
}

// IsSet checks if the n-th bit is set (1 to 8).
func IsSet(b byte, n uint) bool {
	return b&Bit(n) != 0
}

// GetRange extracts the value from a range of bits (e.g., bits 5 to 3).
// Example: GetRange(0b00010100, 5, 3) returns 5 (0b101)
func GetRange(b byte, high, low uint) byte {
	if high < low || high > 8 || low < 1 {
		return 0
	}

	width := high - low + 1
	mask := byte((1 << width) - 1)

	return (b >> (low - 1)) & mask
}

// AllSet checks if every bit in the range high..low is set.
// BER-TLV uses this to detect a multi-byte tag (bits 5-1 all set).
func AllSet(b byte, high, low uint) bool {
	if high < low || high > 8 || low < 1 {
		return false
	}
	width := high - low + 1
	return GetRange(b, high, low) == byte((1<<width)-1)
}

// Nibbles splits a byte into its high (bits 8-5) and low (bits 4-1) halves.
func Nibbles(b byte) (high, low byte) {
	return GetRange(b, 8, 5), GetRange(b, 4, 1)
}
