package pst

import "errors"

var (
	magic       = []byte{'!', 'B', 'D', 'N'}
	magicClient = []byte{'S', 'M'}
)

// File format versions as stored in the header's wVer field.
const (
	versionANSI     = 14
	versionANSIAlt  = 15
	versionUnicode  = 23
	versionUnicode4 = 36
)

const (
	headerSize = 564 // large enough for both generations
	pageSize   = 512

	blockAlign    = 64
	maxBlockBytes = 8192
)

// Page types from the page trailer.
const (
	ptypeBBT = 0x80
	ptypeNBT = 0x81
)

// Block types of internal (non-data) blocks.
const (
	btypeXBlock  = 0x01
	btypeSLBlock = 0x02
)

const (
	heapSignature = 0xEC
	bthSignature  = 0xB5
)

// ErrNotFound is returned when a key cannot be found in a tree.
var ErrNotFound = errors.New("pst: not found")

// ErrNotPST is returned when the header magic does not match.
var ErrNotPST = errors.New("pst: bad magic byte sequence")

// ErrUnsupported is returned for valid but unsupported files, such as
// 4K-page Unicode files or unknown encryption methods.
var ErrUnsupported = errors.New("pst: unsupported format")

// Kinds of structural failures, always wrapped in a *FormatError.
var (
	ErrCorrupt             = errors.New("pst: corrupt structure")
	ErrUnexpectedStructure = errors.New("pst: unexpected structure")
	ErrUnparseableTable    = errors.New("pst: unparseable table")
)

var errClosed = errors.New("pst: is closed")

// --------------------------------------------------------------------

// Format is the on-disk generation of a file.
type Format uint8

// Supported formats.
const (
	ANSI Format = iota + 1
	Unicode
)

func (f Format) String() string {
	switch f {
	case ANSI:
		return "ANSI"
	case Unicode:
		return "Unicode"
	}
	return "unknown"
}

// CryptMethod is the encoding applied to data blocks.
type CryptMethod uint8

// Crypt methods as stored in the header's bCryptMethod field.
const (
	CryptNone    CryptMethod = 0x00
	CryptPermute CryptMethod = 0x01
	CryptCyclic  CryptMethod = 0x02
)

func (c CryptMethod) isValid() bool {
	return c <= CryptCyclic
}

func (c CryptMethod) String() string {
	switch c {
	case CryptNone:
		return "none"
	case CryptPermute:
		return "permute"
	case CryptCyclic:
		return "cyclic"
	}
	return "unknown"
}
