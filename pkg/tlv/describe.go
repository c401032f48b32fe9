package tlv

import (
	"encoding/hex"
	"fmt"
	"reflect"
	"strings"
)

// WriteStructFields inspects a struct and writes its fields to the strings.Builder.
// It joins lines with newlines but DOES NOT add a trailing newline, preventing artifacts in strings.Split.
// If the builder is not empty, it prepends a newline to separate this block from previous content.
//
// Handled fields: byte slices (formatted per the `fmt` struct tag: hex by
// default, "ascii", "int" or "len"), integers, strings, booleans, values
// implementing fmt.Stringer, and []Node leftovers. Nested structs are left to
// the caller, empty slices and nil pointers are skipped, and `fmt:"-"`
// hides a field.
func WriteStructFields(sb *strings.Builder, prefix string, s interface{}) {
	val := reflect.ValueOf(s)

	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return
	}

	typ := val.Type()
	var lines []string

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)

		if !fieldType.IsExported() || fieldType.Tag.Get("fmt") == "-" {
			continue
		}

		if field.Type() == nodeSliceType {
			lines = append(lines, formatUnknownField(prefix, field)...)
			continue
		}

		if line := formatField(prefix, field, fieldType); line != "" {
			lines = append(lines, line)
		}
	}

	if len(lines) > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(strings.Join(lines, "\n"))
	}
}

func formatField(prefix string, field reflect.Value, fieldType reflect.StructField) string {
	display, ok := formatValue(field, fieldType.Tag.Get("fmt"))
	if !ok {
		return ""
	}

	name := fieldType.Name
	if tlvTag := fieldType.Tag.Get("tlv"); tlvTag != "" {
		name = fmt.Sprintf("%s (%s)", name, tlvTag)
	}

	return fmt.Sprintf("    - %s.%s: %s", prefix, name, display)
}

func formatValue(field reflect.Value, format string) (string, bool) {
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return "", false
		}
		field = field.Elem()
	}

	if field.Kind() == reflect.Slice && field.Type().Elem().Kind() == reflect.Uint8 {
		if field.Len() == 0 {
			return "", false
		}
		return formatByteValue(field.Bytes(), format), true
	}

	if stringer, ok := field.Interface().(fmt.Stringer); ok {
		switch field.Kind() {
		case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return fmt.Sprintf("%s (%d)", stringer.String(), field.Interface()), true
		}
		return stringer.String(), true
	}

	switch field.Kind() {
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fmt.Sprintf("%d", field.Uint()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fmt.Sprintf("%d", field.Int()), true
	case reflect.Bool:
		return fmt.Sprintf("%t", field.Bool()), true
	case reflect.String:
		if field.Len() == 0 {
			return "", false
		}
		return field.String(), true
	}

	return "", false
}

func formatUnknownField(prefix string, field reflect.Value) []string {
	if field.IsNil() || field.Len() == 0 {
		return nil
	}

	var lines []string
	for _, n := range field.Interface().([]Node) {
		valStr := strings.ToUpper(hex.EncodeToString(n.Value))
		lines = append(lines, fmt.Sprintf("    - %s.Unknown Tag %s: %s", prefix, n.Tag, valStr))
	}
	return lines
}

func formatByteValue(data []byte, format string) string {
	switch format {
	case "ascii":
		return fmt.Sprintf("%X (%q)", data, MakeSafeASCII(data))
	case "int":
		var integer int
		for _, b := range data {
			integer = (integer << 8) | int(b)
		}
		return fmt.Sprintf("%X (Dec: %d)", data, integer)
	case "len":
		return fmt.Sprintf("%d bytes", len(data))
	default:
		return strings.ToUpper(hex.EncodeToString(data))
	}
}

// MakeSafeASCII replaces non-printable bytes with '.'.
func MakeSafeASCII(data []byte) string {
	return strings.Map(func(r rune) rune {
		if r >= 32 && r <= 126 {
			return r
		}
		return '.'
	}, string(data))
}
