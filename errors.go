package pst

import (
	"fmt"
	"strings"
)

// FormatError describes a structural mismatch found while decoding. Kind is
// one of ErrCorrupt, ErrUnexpectedStructure or ErrUnparseableTable and can be
// tested with errors.Is.
type FormatError struct {
	Kind     error
	Subject  string // "page", "block", "heap", "table", ...
	ID       uint64 // offending BID, NID or HID
	Field    string
	Expected interface{}
	Found    interface{}
}

func formatErr(kind error, subject string, id uint64, field string, expected, found interface{}) error {
	return &FormatError{Kind: kind, Subject: subject, ID: id, Field: field, Expected: expected, Found: found}
}

func corruptf(subject string, id uint64, field string, expected, found interface{}) error {
	return formatErr(ErrCorrupt, subject, id, field, expected, found)
}

// Unwrap returns the error kind.
func (e *FormatError) Unwrap() error { return e.Kind }

func (e *FormatError) Error() string {
	var buf strings.Builder
	buf.WriteString(e.Kind.Error())
	buf.WriteString(": ")
	buf.WriteString(e.Subject)
	fmt.Fprintf(&buf, " 0x%x", e.ID)
	if e.Field != "" {
		buf.WriteString(": ")
		buf.WriteString(e.Field)
	}
	if e.Expected != nil || e.Found != nil {
		fmt.Fprintf(&buf, ": expected %v, found %v", hexish(e.Expected), hexish(e.Found))
	}
	return buf.String()
}

func hexish(v interface{}) interface{} {
	switch x := v.(type) {
	case uint8:
		return fmt.Sprintf("0x%02x", x)
	case ClientSig:
		return fmt.Sprintf("0x%02x", uint8(x))
	case BID:
		return x.String()
	case NID:
		return x.String()
	case HID:
		return x.String()
	}
	return v
}
