package pst

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// PropType is the type half of a property tag.
type PropType uint16

// Property types.
const (
	PropTypeUnspecified PropType = 0x0000
	PropTypeNull        PropType = 0x0001
	PropTypeInt16       PropType = 0x0002
	PropTypeInt32       PropType = 0x0003
	PropTypeFloat32     PropType = 0x0004
	PropTypeFloat64     PropType = 0x0005
	PropTypeCurrency    PropType = 0x0006
	PropTypeAppTime     PropType = 0x0007
	PropTypeErrorCode   PropType = 0x000A
	PropTypeBoolean     PropType = 0x000B
	PropTypeObject      PropType = 0x000D
	PropTypeInt64       PropType = 0x0014
	PropTypeString8     PropType = 0x001E
	PropTypeString      PropType = 0x001F
	PropTypeTime        PropType = 0x0040
	PropTypeGUID        PropType = 0x0048
	PropTypeServerID    PropType = 0x00FB
	PropTypeRestriction PropType = 0x00FD
	PropTypeRuleAction  PropType = 0x00FE
	PropTypeBinary      PropType = 0x0102

	// PropTypeMultiple is set on multi-valued variants of the base types.
	PropTypeMultiple PropType = 0x1000
)

var propTypeNames = map[PropType]string{
	PropTypeUnspecified: "Unspecified",
	PropTypeNull:        "Null",
	PropTypeInt16:       "Int16",
	PropTypeInt32:       "Int32",
	PropTypeFloat32:     "Float32",
	PropTypeFloat64:     "Float64",
	PropTypeCurrency:    "Currency",
	PropTypeAppTime:     "AppTime",
	PropTypeErrorCode:   "ErrorCode",
	PropTypeBoolean:     "Boolean",
	PropTypeObject:      "Object",
	PropTypeInt64:       "Int64",
	PropTypeString8:     "String8",
	PropTypeString:      "String",
	PropTypeTime:        "Time",
	PropTypeGUID:        "GUID",
	PropTypeServerID:    "ServerID",
	PropTypeRestriction: "Restriction",
	PropTypeRuleAction:  "RuleAction",
	PropTypeBinary:      "Binary",
}

// IsMultiple reports whether t is a multi-valued type.
func (t PropType) IsMultiple() bool { return t&PropTypeMultiple != 0 }

// Base strips the multi-valued flag.
func (t PropType) Base() PropType { return t &^ PropTypeMultiple }

func (t PropType) String() string {
	name, ok := propTypeNames[t.Base()]
	if !ok {
		return fmt.Sprintf("0x%04X", uint16(t))
	}
	if t.IsMultiple() {
		return "Multiple" + name
	}
	return name
}

// fixedSize returns the stored size of a single-valued fixed-width type, or
// zero for variable-length and multi-valued types.
func (t PropType) fixedSize() int {
	switch t {
	case PropTypeBoolean:
		return 1
	case PropTypeInt16:
		return 2
	case PropTypeInt32, PropTypeFloat32, PropTypeErrorCode:
		return 4
	case PropTypeFloat64, PropTypeCurrency, PropTypeAppTime, PropTypeInt64, PropTypeTime:
		return 8
	case PropTypeGUID:
		return 16
	}
	return 0
}

// variable reports whether t is one of the types a table stores behind an
// HNID when its cell is 4 bytes or narrower.
func (t PropType) variable() bool {
	if t.IsMultiple() {
		return true
	}
	switch t {
	case PropTypeObject, PropTypeString, PropTypeString8, PropTypeBinary, PropTypeGUID:
		return true
	}
	return false
}

// inline reports whether a table cell of width bytes holds the value itself
// rather than an HNID. An HNID is 4 bytes, so wider cells are always inline.
func (t PropType) inline(width int) bool {
	return width > 4 || !t.variable()
}

// inSlot reports whether a property context keeps the value in the 4-byte
// record slot. Everything else, including 8-byte scalars, is an HNID.
func (t PropType) inSlot() bool {
	n := t.fixedSize()
	return n != 0 && n <= 4
}

// decodeValue converts stored bytes into a Go value:
//
//	Int16       int16
//	Int32       int32
//	Float32     float32
//	Float64     float64
//	Currency    int64 (scaled by 10000)
//	AppTime     time.Time
//	ErrorCode   uint32
//	Boolean     bool
//	Int64       int64
//	String8     string
//	String      string
//	Time        time.Time
//	GUID        uuid.UUID
//	otherwise   []byte
//
// Multi-valued types decode into slices of the above.
func decodeValue(tag PropTag, p []byte) (interface{}, error) {
	t := tag.Type()
	if t.IsMultiple() {
		return decodeMultiple(tag, p)
	}

	if n := t.fixedSize(); len(p) < n {
		return nil, corruptf("property", uint64(tag), "value size", n, len(p))
	}

	switch t {
	case PropTypeInt16:
		return int16(le.Uint16(p)), nil
	case PropTypeInt32:
		return int32(le.Uint32(p)), nil
	case PropTypeFloat32:
		return math.Float32frombits(le.Uint32(p)), nil
	case PropTypeFloat64:
		return math.Float64frombits(le.Uint64(p)), nil
	case PropTypeCurrency, PropTypeInt64:
		return int64(le.Uint64(p)), nil
	case PropTypeAppTime:
		return decodeAppTime(math.Float64frombits(le.Uint64(p))), nil
	case PropTypeErrorCode:
		return le.Uint32(p), nil
	case PropTypeBoolean:
		return p[0] != 0, nil
	case PropTypeTime:
		return decodeFiletime(le.Uint64(p)), nil
	case PropTypeGUID:
		return decodeGUID(p), nil
	case PropTypeString8:
		return decodeString8(p)
	case PropTypeString:
		return decodeString(p)
	}

	b := make([]byte, len(p))
	copy(b, p)
	return b, nil
}

func decodeMultiple(tag PropTag, p []byte) (interface{}, error) {
	base := tag.Type().Base()

	if size := base.fixedSize(); size != 0 {
		if len(p)%size != 0 {
			return nil, corruptf("property", uint64(tag), "value size", fmt.Sprintf("multiple of %d", size), len(p))
		}
		return decodeFixedArray(base, p, len(p)/size), nil
	}

	items, err := splitMultiple(tag, p)
	if err != nil {
		return nil, err
	}

	switch base {
	case PropTypeString, PropTypeString8:
		vv := make([]string, len(items))
		for i, item := range items {
			v, err := decodeValue(MakePropTag(tag.ID(), base), item)
			if err != nil {
				return nil, err
			}
			vv[i] = v.(string)
		}
		return vv, nil
	}

	vv := make([][]byte, len(items))
	for i, item := range items {
		vv[i] = make([]byte, len(item))
		copy(vv[i], item)
	}
	return vv, nil
}

func decodeFixedArray(t PropType, p []byte, n int) interface{} {
	switch t {
	case PropTypeInt16:
		vv := make([]int16, n)
		for i := range vv {
			vv[i] = int16(le.Uint16(p[2*i:]))
		}
		return vv
	case PropTypeInt32:
		vv := make([]int32, n)
		for i := range vv {
			vv[i] = int32(le.Uint32(p[4*i:]))
		}
		return vv
	case PropTypeFloat32:
		vv := make([]float32, n)
		for i := range vv {
			vv[i] = math.Float32frombits(le.Uint32(p[4*i:]))
		}
		return vv
	case PropTypeFloat64:
		vv := make([]float64, n)
		for i := range vv {
			vv[i] = math.Float64frombits(le.Uint64(p[8*i:]))
		}
		return vv
	case PropTypeCurrency, PropTypeInt64:
		vv := make([]int64, n)
		for i := range vv {
			vv[i] = int64(le.Uint64(p[8*i:]))
		}
		return vv
	case PropTypeAppTime:
		vv := make([]time.Time, n)
		for i := range vv {
			vv[i] = decodeAppTime(math.Float64frombits(le.Uint64(p[8*i:])))
		}
		return vv
	case PropTypeTime:
		vv := make([]time.Time, n)
		for i := range vv {
			vv[i] = decodeFiletime(le.Uint64(p[8*i:]))
		}
		return vv
	case PropTypeGUID:
		vv := make([]uuid.UUID, n)
		for i := range vv {
			vv[i] = decodeGUID(p[16*i:])
		}
		return vv
	case PropTypeErrorCode:
		vv := make([]uint32, n)
		for i := range vv {
			vv[i] = le.Uint32(p[4*i:])
		}
		return vv
	case PropTypeBoolean:
		vv := make([]bool, n)
		for i := range vv {
			vv[i] = p[i] != 0
		}
		return vv
	}
	return nil
}

// splitMultiple splits a variable-length multi-valued property: a count,
// one offset per item, then the item data.
func splitMultiple(tag PropTag, p []byte) ([][]byte, error) {
	if len(p) < 4 {
		return nil, corruptf("property", uint64(tag), "value size", 4, len(p))
	}

	n := int(le.Uint32(p))
	if 4+4*n > len(p) {
		return nil, corruptf("property", uint64(tag), "item count", (len(p)-4)/4, n)
	}

	items := make([][]byte, n)
	for i := range items {
		start := int(le.Uint32(p[4+4*i:]))
		end := len(p)
		if i+1 < n {
			end = int(le.Uint32(p[8+4*i:]))
		}
		if start < 4+4*n || start > end || end > len(p) {
			return nil, corruptf("property", uint64(tag), fmt.Sprintf("item %d offset", i), nil, start)
		}
		items[i] = p[start:end]
	}
	return items, nil
}
