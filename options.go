package pst

import "go.uber.org/zap"

// Options define reader specific options.
type Options struct {
	// Logger receives debug traces of structure construction.
	// Default: a no-op logger.
	Logger *zap.Logger

	// SkipChecksums disables CRC and signature verification of the header,
	// pages and blocks. Structural checks are always performed.
	// Default: false.
	SkipChecksums bool

	// Mmap maps the file into memory on Open instead of issuing a read per
	// block. Ignored by NewFile and on platforms without mmap.
	// Default: false.
	Mmap bool
}

func (o *Options) norm() *Options {
	var oo Options
	if o != nil {
		oo = *o
	}

	if oo.Logger == nil {
		oo.Logger = zap.NewNop()
	}

	return &oo
}
