// Package tlv decodes BER-TLV (Basic Encoding Rules - Tag-Length-Value) data
// and maps decoded templates into Go structures using struct tags.
//
// Decoding is strict: lengths must fit the buffer, constructed values must be
// filled exactly by their children, and indefinite lengths are rejected.
package tlv

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"reflect"
	"strings"
)

// Unmarshaler allows custom types to implement their own TLV parsing logic.
type Unmarshaler interface {
	UnmarshalTLV(value []byte) error
}

var nodeSliceType = reflect.TypeOf([]Node{})

// Unmarshal parses raw BER-TLV data and maps the top-level objects into target.
func Unmarshal(data []byte, target interface{}) error {
	nodes, err := ParseAll(data)
	if err != nil {
		return fmt.Errorf("tlv decode failed: %w", err)
	}
	return UnmarshalNodes(nodes, target)
}

// ParseAll decodes a concatenation of data objects.
func ParseAll(data []byte) ([]Node, error) {
	c := NewCursor(data)
	var nodes []Node
	for c.Remaining() > 0 {
		node, err := Parse(c)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// UnmarshalNodes maps already decoded nodes to the fields of the struct target points to.
//
// Fields are selected with a `tlv:"<hex tag>"` struct tag. Supported field
// types are []byte (copied), unsigned integers (big-endian value), string
// (hex of the value), nested structs or struct pointers (children of a
// constructed node), slices of those for repeated tags, and types
// implementing Unmarshaler. A field tagged `tlv:",unknown"` of type []Node
// receives every node no other field consumed.
func UnmarshalNodes(nodes []Node, target interface{}) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("target must be a non-nil pointer")
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("target must point to a struct, got %s", v.Kind())
	}
	t := v.Type()

	consumed := make(map[int]bool)

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)
		tagConfig := fieldType.Tag.Get("tlv")

		if tagConfig == "" || tagConfig == ",unknown" {
			continue
		}

		tagHex := strings.ToUpper(strings.Split(tagConfig, ",")[0])

		for idx, node := range nodes {
			if node.Tag.String() == tagHex {
				if err := mapNodeToField(node, field); err != nil {
					return fmt.Errorf("field %s (%s): %w", fieldType.Name, tagHex, err)
				}
				consumed[idx] = true
			}
		}
	}

	return handleUnknownFields(v, t, nodes, consumed)
}

// mapNodeToField grows slices of structs for repeated tags and dispatches
// everything else to decodeToValue.
func mapNodeToField(node Node, field reflect.Value) error {
	if field.Kind() == reflect.Slice && !isByteSlice(field) {
		newElem := reflect.New(field.Type().Elem()).Elem()
		if err := decodeToValue(node, newElem); err != nil {
			return err
		}
		field.Set(reflect.Append(field, newElem))
		return nil
	}

	return decodeToValue(node, field)
}

func decodeToValue(node Node, field reflect.Value) error {
	if field.CanAddr() {
		if u, ok := field.Addr().Interface().(Unmarshaler); ok {
			return u.UnmarshalTLV(node.Value)
		}
	}

	// Optional custom types: allocate only when the tag is present.
	if field.Kind() == reflect.Ptr {
		elem := reflect.New(field.Type().Elem())
		if u, ok := elem.Interface().(Unmarshaler); ok {
			if err := u.UnmarshalTLV(node.Value); err != nil {
				return err
			}
			field.Set(elem)
			return nil
		}
	}

	switch {
	case isByteSlice(field):
		field.SetBytes(bytes.Clone(node.Value))
		return nil

	case field.Kind() == reflect.String:
		field.SetString(hex.EncodeToString(node.Value))
		return nil

	case isUint(field):
		size := int(field.Type().Size())
		if len(node.Value) > size {
			return NewError(ErrMalformedTLV, node.ValueOffset, "%d value bytes do not fit in %s", len(node.Value), field.Type())
		}
		var n uint64
		for _, b := range node.Value {
			n = n<<8 | uint64(b)
		}
		field.SetUint(n)
		return nil

	case isStructOrPtrToStruct(field):
		return UnmarshalNodes(node.Children, getTargetField(field).Interface())
	}

	return nil
}

func handleUnknownFields(v reflect.Value, t reflect.Type, nodes []Node, consumed map[int]bool) error {
	unknownField, found := findUnknownField(v, t)
	if !found {
		return nil
	}

	var leftovers []Node
	for idx, node := range nodes {
		if !consumed[idx] {
			leftovers = append(leftovers, node.Clone())
		}
	}

	if len(leftovers) > 0 && unknownField.CanSet() {
		unknownField.Set(reflect.ValueOf(leftovers))
	}
	return nil
}

func findUnknownField(v reflect.Value, t reflect.Type) (reflect.Value, bool) {
	for i := 0; i < v.NumField(); i++ {
		if t.Field(i).Tag.Get("tlv") == ",unknown" && t.Field(i).Type == nodeSliceType {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func isByteSlice(v reflect.Value) bool {
	return v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8
}

func isUint(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isStructOrPtrToStruct(v reflect.Value) bool {
	if v.Kind() == reflect.Struct {
		return true
	}
	if v.Kind() == reflect.Ptr && v.Type().Elem().Kind() == reflect.Struct {
		return true
	}
	return false
}

func getTargetField(field reflect.Value) reflect.Value {
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}
		return field
	}
	return field.Addr()
}
