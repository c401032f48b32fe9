package tlv

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Hex constructs a byte slice from a series of hex strings.
// Spaces are ignored so fixtures can be laid out field by field ("7F61 0A").
func Hex(parts ...string) []byte {
	cleanHex := strings.ReplaceAll(strings.Join(parts, ""), " ", "")

	data, err := hex.DecodeString(cleanHex)
	if err != nil {
		panic(fmt.Sprintf("invalid input '%s': %v", cleanHex, err))
	}
	return data
}
