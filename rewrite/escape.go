// This file is part of RomSquash.
//
// RomSquash is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// RomSquash is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with RomSquash.  If not, see <https://www.gnu.org/licenses/>.

package rewrite

import (
	"strings"

	"github.com/manicmole/romsquash/curated"
)

// sentinel errors returned by DecodeEscapes.
const (
	UnrecognisedEscape = "rewrite: unrecognised escape sequence (\\%c)"
	TruncatedEscape    = "rewrite: truncated escape sequence"
)

// DecodeEscapes converts an .ascii directive payload to the bytes the
// assembler would store for it.
//
// The escapes the assembler understands are decoded byte-exactly: \" and \\,
// the character escapes \a \b \e \f \n \r \t \v, octal escapes of one to
// three digits and hex escapes of \x followed by any number of hex digits
// (truncated to a byte, as the assembler truncates them). Any other escape
// is an error. Matching against a ROM image is meaningless if even one byte
// of the string is in doubt.
func DecodeEscapes(payload string) (string, error) {
	b := strings.Builder{}
	b.Grow(len(payload))

	i := 0
	for i < len(payload) {
		c := payload[i]
		if c != '\\' {
			b.WriteByte(c)
			i++
			continue
		}

		i++
		if i >= len(payload) {
			return "", curated.Errorf(TruncatedEscape)
		}

		e := payload[i]
		switch e {
		case '"':
			b.WriteByte('"')
			i++
		case '\\':
			b.WriteByte('\\')
			i++
		case 'a':
			b.WriteByte(0x07)
			i++
		case 'b':
			b.WriteByte(0x08)
			i++
		case 'e':
			b.WriteByte(0x1b)
			i++
		case 'f':
			b.WriteByte(0x0c)
			i++
		case 'n':
			b.WriteByte(0x0a)
			i++
		case 'r':
			b.WriteByte(0x0d)
			i++
		case 't':
			b.WriteByte(0x09)
			i++
		case 'v':
			b.WriteByte(0x0b)
			i++
		case 'x':
			i++
			j := i
			var v uint32
			for j < len(payload) && isHexDigit(payload[j]) {
				v = v<<4 | uint32(hexDigit(payload[j]))
				j++
			}
			if j == i {
				return "", curated.Errorf(TruncatedEscape)
			}
			b.WriteByte(byte(v))
			i = j
		default:
			if e >= '0' && e <= '7' {
				// octal escapes are one to three digits
				v := 0
				j := i
				for j < len(payload) && j < i+3 && payload[j] >= '0' && payload[j] <= '7' {
					v = v<<3 | int(payload[j]-'0')
					j++
				}
				b.WriteByte(byte(v))
				i = j
			} else {
				return "", curated.Errorf(UnrecognisedEscape, rune(e))
			}
		}
	}

	return b.String(), nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexDigit(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	}
	return c - 'A' + 10
}
