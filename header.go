package pst

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
)

// Header holds the fields of the file header needed to navigate the file.
type Header struct {
	Format        Format
	Version       uint16 // wVer
	ClientVersion uint16 // wVerClient
	Crypt         CryptMethod
	FileSize      int64 // ibFileEof

	NodeBTree  BlockRef // root page of the node B-tree
	BlockBTree BlockRef // root page of the block B-tree
}

// header field offsets by generation
type headerLayout struct {
	fileEOF, nbtRoot, bbtRoot, crypt int
}

var (
	ansiHeader    = headerLayout{fileEOF: 168, nbtRoot: 184, bbtRoot: 192, crypt: 461}
	unicodeHeader = headerLayout{fileEOF: 184, nbtRoot: 216, bbtRoot: 232, crypt: 513}
)

const (
	headerCRCOffset = 4
	headerCRCStart  = 8
	headerCRCLen    = 471

	// Unicode headers also carry a CRC over the full header.
	headerFullCRCOffset = 524
	headerFullCRCLen    = 516
)

func readHeader(r io.ReaderAt, verify bool) (*Header, error) {
	p := make([]byte, headerSize)
	if n, err := r.ReadAt(p, 0); n < len(p) {
		if err == nil || err == io.EOF {
			return nil, ErrNotPST // too short to be a PST
		}
		return nil, errors.Wrap(err, "pst: read header")
	}
	return parseHeader(p, verify)
}

func parseHeader(p []byte, verify bool) (*Header, error) {
	if !bytes.Equal(p[0:4], magic) || !bytes.Equal(p[8:10], magicClient) {
		return nil, ErrNotPST
	}

	h := &Header{
		Version:       le.Uint16(p[10:]),
		ClientVersion: le.Uint16(p[12:]),
	}

	var layout headerLayout
	switch h.Version {
	case versionANSI, versionANSIAlt:
		h.Format, layout = ANSI, ansiHeader
	case versionUnicode:
		h.Format, layout = Unicode, unicodeHeader
	case versionUnicode4:
		return nil, errors.Wrapf(ErrUnsupported, "4k page version %d", h.Version)
	default:
		return nil, errors.Wrapf(ErrUnsupported, "version %d", h.Version)
	}

	if verify {
		stored := le.Uint32(p[headerCRCOffset:])
		if crc := computeCRC(p[headerCRCStart : headerCRCStart+headerCRCLen]); crc != stored {
			return nil, corruptf("header", 0, "partial crc", stored, crc)
		}
		if h.Format == Unicode {
			stored := le.Uint32(p[headerFullCRCOffset:])
			if crc := computeCRC(p[headerCRCStart : headerCRCStart+headerFullCRCLen]); crc != stored {
				return nil, corruptf("header", 0, "full crc", stored, crc)
			}
		}
	}

	f := h.Format
	h.FileSize = f.readIB(p[layout.fileEOF:])
	h.NodeBTree = BlockRef{BID: f.readBID(p[layout.nbtRoot:]), Offset: f.readIB(p[layout.nbtRoot+f.bidSize():])}
	h.BlockBTree = BlockRef{BID: f.readBID(p[layout.bbtRoot:]), Offset: f.readIB(p[layout.bbtRoot+f.bidSize():])}

	h.Crypt = CryptMethod(p[layout.crypt])
	if !h.Crypt.isValid() {
		return nil, errors.Wrapf(ErrUnsupported, "crypt method 0x%02x", uint8(h.Crypt))
	}
	return h, nil
}
