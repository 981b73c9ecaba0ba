package pst

import (
	"encoding/binary"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var le = binary.LittleEndian

func (f Format) bidSize() int {
	if f == Unicode {
		return 8
	}
	return 4
}

func (f Format) readBID(p []byte) BID {
	if f == Unicode {
		return BID(le.Uint64(p))
	}
	return BID(le.Uint32(p))
}

// readIB reads a file offset, which has the same width as a BID.
func (f Format) readIB(p []byte) int64 {
	return int64(f.readBID(p))
}

func (f Format) blockTrailerSize() int {
	if f == Unicode {
		return 16
	}
	return 12
}

// maxBlockData is the largest payload of a single data block.
func (f Format) maxBlockData() int {
	return maxBlockBytes - f.blockTrailerSize()
}

// blockSize is the on-disk footprint of a block holding cb bytes.
func (f Format) blockSize(cb int) int {
	n := cb + f.blockTrailerSize()
	return (n + blockAlign - 1) &^ (blockAlign - 1)
}

// --------------------------------------------------------------------

// decodeGUID converts the on-disk GUID layout (first three groups
// little-endian) into RFC 4122 byte order.
func decodeGUID(p []byte) uuid.UUID {
	var u uuid.UUID
	u[0], u[1], u[2], u[3] = p[3], p[2], p[1], p[0]
	u[4], u[5] = p[5], p[4]
	u[6], u[7] = p[7], p[6]
	copy(u[8:], p[8:16])
	return u
}

// filetimeEpoch is the offset between 1601-01-01 and 1970-01-01 in 100ns
// intervals.
const filetimeEpoch = 116444736000000000

func decodeFiletime(v uint64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	d := int64(v) - filetimeEpoch
	return time.Unix(d/1e7, (d%1e7)*100).UTC()
}

// apptimeEpoch is 1899-12-30, the zero of an OLE automation date.
var apptimeEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

func decodeAppTime(days float64) time.Time {
	return apptimeEpoch.Add(time.Duration(days * 24 * float64(time.Hour)))
}

var (
	utf16Decoder   = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	string8Charset = charmap.Windows1252
)

func decodeString(p []byte) (string, error) {
	if len(p)%2 == 1 {
		p = p[:len(p)-1]
	}
	b, err := utf16Decoder.NewDecoder().Bytes(p)
	if err != nil {
		return "", err
	}
	return trimNUL(string(b)), nil
}

func decodeString8(p []byte) (string, error) {
	b, err := string8Charset.NewDecoder().Bytes(p)
	if err != nil {
		return "", err
	}
	return trimNUL(string(b)), nil
}

func trimNUL(s string) string {
	for len(s) != 0 && s[len(s)-1] == 0 {
		s = s[:len(s)-1]
	}
	return s
}
