package core

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// encodeText converts s to the requested encoding. Characters the target
// cannot represent are replaced with '?' instead of failing the export.
func encodeText(s string, enc Encoding) ([]byte, error) {
	switch enc {
	case EncodingUTF8BOM:
		out := make([]byte, 0, len(utf8BOM)+len(s))
		out = append(out, utf8BOM...)
		return append(out, strings.ToValidUTF8(s, "�")...), nil
	case EncodingUTF8:
		return []byte(strings.ToValidUTF8(s, "�")), nil
	case EncodingLatin1:
		return encodeCharmap(s, charmap.ISO8859_1), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", enc)
	}
}

func encodeCharmap(s string, cm *charmap.Charmap) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := cm.EncodeRune(r)
		if !ok {
			b = '?'
		}
		out = append(out, b)
	}
	return out
}
