// Package canon produces deterministic JSON encodings of structured documents.
//
// Serialize sorts the keys of every object at every depth by ordinal byte order,
// so two documents that differ only in map insertion order or struct field
// declaration order encode to identical bytes. Array element order is kept.
package canon

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

var (
	marshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	numberType    = reflect.TypeOf((*json.Number)(nil)).Elem()
)

// Serialize returns the canonical JSON encoding of v.
//
// Serialize is total: it never panics and never fails. Values that have no
// JSON form (NaN and infinite floats, funcs, channels, complex numbers, and
// json.Marshaler implementations that return an error) encode as null.
func Serialize(v any) string {
	var buf bytes.Buffer
	writeValue(&buf, reflect.ValueOf(v))
	return buf.String()
}

// Hash returns the lowercase hex SHA-256 digest of Serialize(v).
func Hash(v any) string {
	sum := sha256.Sum256([]byte(Serialize(v)))
	return hex.EncodeToString(sum[:])
}

// Equal reports whether a and b have the same canonical encoding.
func Equal(a, b any) bool {
	return Serialize(a) == Serialize(b)
}

func writeValue(buf *bytes.Buffer, v reflect.Value) {
	if !v.IsValid() {
		buf.WriteString("null")
		return
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		if v.IsNil() {
			buf.WriteString("null")
			return
		}
	}

	if v.CanInterface() && v.Type().Implements(marshalerType) {
		writeMarshaler(buf, v.Interface().(json.Marshaler))
		return
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		writeValue(buf, v.Elem())
	case reflect.Bool:
		buf.WriteString(strconv.FormatBool(v.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		buf.WriteString(strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		buf.WriteString(strconv.FormatUint(v.Uint(), 10))
	case reflect.Float32:
		writeFloat(buf, v.Float(), 32)
	case reflect.Float64:
		writeFloat(buf, v.Float(), 64)
	case reflect.String:
		if v.Type() == numberType {
			writeNumber(buf, v.String())
			return
		}
		writeString(buf, v.String())
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			writeString(buf, base64.StdEncoding.EncodeToString(v.Bytes()))
			return
		}
		writeArray(buf, v)
	case reflect.Array:
		writeArray(buf, v)
	case reflect.Map:
		writeMap(buf, v)
	case reflect.Struct:
		writeStruct(buf, v)
	default:
		buf.WriteString("null")
	}
}

// writeMarshaler re-canonicalises the output of a custom marshaller so that
// objects it produces are key-sorted like everything else.
func writeMarshaler(buf *bytes.Buffer, m json.Marshaler) {
	raw, err := m.MarshalJSON()
	if err != nil {
		buf.WriteString("null")
		return
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		buf.WriteString("null")
		return
	}
	writeValue(buf, reflect.ValueOf(decoded))
}

func writeArray(buf *bytes.Buffer, v reflect.Value) {
	buf.WriteByte('[')
	for i := 0; i < v.Len(); i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeValue(buf, v.Index(i))
	}
	buf.WriteByte(']')
}

func writeMap(buf *bytes.Buffer, v reflect.Value) {
	type entry struct {
		key string
		val reflect.Value
	}
	entries := make([]entry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		entries = append(entries, entry{key: mapKey(iter.Key()), val: iter.Value()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	buf.WriteByte('{')
	for i, e := range entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeString(buf, e.key)
		buf.WriteByte(':')
		writeValue(buf, e.val)
	}
	buf.WriteByte('}')
}

func mapKey(k reflect.Value) string {
	switch k.Kind() {
	case reflect.String:
		return k.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10)
	case reflect.Interface, reflect.Pointer:
		if k.IsNil() {
			return "null"
		}
		return mapKey(k.Elem())
	default:
		return Serialize(k.Interface())
	}
}

type field struct {
	name      string
	omitEmpty bool
	val       reflect.Value
}

func writeStruct(buf *bytes.Buffer, v reflect.Value) {
	fields := collectFields(v, nil)
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].name < fields[j].name })

	buf.WriteByte('{')
	n := 0
	for i, f := range fields {
		// Shallower fields shadow promoted ones with the same name; collectFields
		// lists them first and the stable sort keeps that order.
		if i > 0 && fields[i-1].name == f.name {
			continue
		}
		if f.omitEmpty && isEmptyValue(f.val) {
			continue
		}
		if n > 0 {
			buf.WriteByte(',')
		}
		writeString(buf, f.name)
		buf.WriteByte(':')
		writeValue(buf, f.val)
		n++
	}
	buf.WriteByte('}')
}

// collectFields lists the JSON-visible fields of v, flattening untagged
// embedded structs the way encoding/json does.
func collectFields(v reflect.Value, out []field) []field {
	t := v.Type()
	var promoted []reflect.Value
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := sf.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		fv := v.Field(i)

		if sf.Anonymous && name == "" {
			ft := sf.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				if fv.Kind() == reflect.Pointer {
					if fv.IsNil() {
						continue
					}
					fv = fv.Elem()
				}
				promoted = append(promoted, fv)
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}
		if name == "" {
			name = sf.Name
		}
		out = append(out, field{name: name, omitEmpty: hasOption(opts, "omitempty"), val: fv})
	}
	for _, p := range promoted {
		out = collectFields(p, out)
	}
	return out
}

func hasOption(opts, want string) bool {
	for opts != "" {
		var o string
		o, opts, _ = strings.Cut(opts, ",")
		if o == want {
			return true
		}
	}
	return false
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}

// writeFloat follows encoding/json's number formatting, except that
// non-finite values encode as null instead of failing.
func writeFloat(buf *bytes.Buffer, f float64, bits int) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		buf.WriteString("null")
		return
	}
	format := byte('f')
	if abs := math.Abs(f); abs != 0 {
		if bits == 64 && (abs < 1e-6 || abs >= 1e21) ||
			bits == 32 && (float32(abs) < 1e-6 || float32(abs) >= 1e21) {
			format = 'e'
		}
	}
	b := strconv.AppendFloat(nil, f, format, -1, bits)
	if format == 'e' {
		// Trim e-09 to e-9.
		n := len(b)
		if n >= 4 && b[n-4] == 'e' && b[n-3] == '-' && b[n-2] == '0' {
			b[n-2] = b[n-1]
			b = b[:n-1]
		}
	}
	buf.Write(b)
}

func writeNumber(buf *bytes.Buffer, s string) {
	if s == "" {
		buf.WriteByte('0')
		return
	}
	if !json.Valid([]byte(s)) {
		writeString(buf, s)
		return
	}
	buf.WriteString(s)
}

func writeString(buf *bytes.Buffer, s string) {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
}
