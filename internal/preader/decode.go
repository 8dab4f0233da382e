package preader

import (
	"io"

	"golang.org/x/text/encoding/ianaindex"

	"github.com/halfbit/pexec/internal/perrs"
)

// DecoderFor resolves an IANA charset name (e.g. "ISO-8859-1",
// "Shift_JIS", "UTF-16LE") to a decoding reader wrapped around r, for
// children that do not emit UTF-8 (spec.md §10 "character encoding").
// An empty name is treated as UTF-8: a no-op wrap, since Go strings
// already assume UTF-8.
func DecoderFor(name string, r io.Reader) (io.Reader, error) {
	if name == "" || name == "UTF-8" || name == "utf-8" {
		return r, nil
	}
	var enc, err = ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, perrs.SpawnConfigError("unknown output encoding %q", name)
	}
	// enc.NewDecoder().Reader(r) keeps decoder state across Read
	// calls, so a multi-byte sequence split across chunk boundaries
	// decodes correctly instead of resetting each call.
	return enc.NewDecoder().Reader(r), nil
}
