// FILE: lixenwraith/smartlog/formatter/escape.go
package formatter

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// appendJSONString writes s as a quoted JSON string
func appendJSONString(dst []byte, s string) []byte {
	dst = append(dst, '"')
	for i := 0; i < len(s); {
		c := s[i]
		if c >= ' ' && c != '"' && c != '\\' && c < 0x7f {
			start := i
			for i < len(s) && s[i] >= ' ' && s[i] != '"' && s[i] != '\\' && s[i] < 0x7f {
				i++
			}
			dst = append(dst, s[start:i]...)
			continue
		}

		if c >= utf8.RuneSelf {
			r, size := utf8.DecodeRuneInString(s[i:])
			if r == utf8.RuneError && size == 1 {
				dst = append(dst, `�`...)
			} else {
				dst = append(dst, s[i:i+size]...)
			}
			i += size
			continue
		}

		switch c {
		case '\\', '"':
			dst = append(dst, '\\', c)
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\f':
			dst = append(dst, '\\', 'f')
		default:
			dst = append(dst, fmt.Sprintf("\\u%04x", c)...)
		}
		i++
	}
	return append(dst, '"')
}

// sanitizeTxt hex-encodes runes that are not printable, as <XXYY>
func sanitizeTxt(s string) string {
	clean := true
	for _, r := range s {
		if !strconv.IsPrint(r) {
			clean = false
			break
		}
	}
	if clean {
		return s
	}

	buf := make([]byte, 0, len(s)+8)
	for _, r := range s {
		if strconv.IsPrint(r) {
			buf = utf8.AppendRune(buf, r)
			continue
		}
		var runeBytes [utf8.UTFMax]byte
		n := utf8.EncodeRune(runeBytes[:], r)
		buf = append(buf, '<')
		buf = append(buf, hex.EncodeToString(runeBytes[:n])...)
		buf = append(buf, '>')
	}
	return string(buf)
}

// appendTxtString writes a sanitized string, quoted when it would break key=value parsing
func appendTxtString(dst []byte, s string) []byte {
	sanitized := sanitizeTxt(s)
	if !needsQuotes(sanitized) {
		return append(dst, sanitized...)
	}

	dst = append(dst, '"')
	for i := 0; i < len(sanitized); i++ {
		if sanitized[i] == '"' || sanitized[i] == '\\' {
			dst = append(dst, '\\')
		}
		dst = append(dst, sanitized[i])
	}
	return append(dst, '"')
}

// needsQuotes determines if quoting is needed in txt output
func needsQuotes(s string) bool {
	if len(s) == 0 {
		return true
	}
	for _, r := range s {
		if unicode.IsSpace(r) {
			return true
		}
		switch r {
		case '"', '\'', '\\', '=', '`', '$', ';', '|', '&':
			return true
		}
	}
	return false
}
