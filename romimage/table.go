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

package romimage

import (
	"fmt"
	"io"
	"sort"

	"github.com/manicmole/romsquash/logger"
)

// StringTable is the index of every NUL-terminated string in a ROM image,
// mapping the string bytes (terminator included) to the absolute address of
// the string's first byte.
type StringTable struct {
	base    uint32
	strings map[string]uint32
}

// Entry is a single string in the StringTable.
type Entry struct {
	Addr uint32

	// the stored bytes, including the NUL terminator
	Bytes string
}

// NewStringTable indexes the supplied ROM image data. The base argument is
// the absolute address at which the image is located.
//
// The data is split at every NUL byte. Each string runs from the byte after
// the previous NUL (or from the start of the image) up to and including the
// next NUL. If the same byte string is stored at more than one address the
// address of the last occurrence wins. Bytes after the final NUL are not
// indexed.
func NewStringTable(data []byte, base uint32) *StringTable {
	t := &StringTable{
		base:    base,
		strings: make(map[string]uint32),
	}

	start := 0
	for i := 0; i < len(data); i++ {
		if data[i] == 0x00 {
			t.strings[string(data[start:i+1])] = base + uint32(start)
			start = i + 1
		}
	}

	logger.Logf("romimage", "%d distinct strings indexed from %d image bytes", len(t.strings), len(data))

	return t
}

// Len returns the number of distinct strings in the table.
func (t *StringTable) Len() int {
	return len(t.strings)
}

// Lookup returns the address of the string that exactly equals the supplied
// bytes. The bytes must include the NUL terminator.
func (t *StringTable) Lookup(raw string) (uint32, bool) {
	addr, ok := t.strings[raw]
	return addr, ok
}

// LookupSuffix returns the address of the supplied bytes when they are stored
// as the tail of a longer string in the table. The returned address is the
// address of the longer string plus the length difference, pointing directly
// at the start of the suffix.
//
// When more than one stored string ends with the supplied bytes it is
// undefined which one is found. Callers must not rely on a particular choice.
func (t *StringTable) LookupSuffix(raw string) (uint32, bool) {
	n := len(raw)
	for s, addr := range t.strings {
		if len(s) > n && s[len(s)-n:] == raw {
			return addr + uint32(len(s)-n), true
		}
	}
	return 0, false
}

// Entries returns every string in the table, sorted by address.
func (t *StringTable) Entries() []Entry {
	e := make([]Entry, 0, len(t.strings))
	for s, addr := range t.strings {
		e = append(e, Entry{Addr: addr, Bytes: s})
	}
	sort.Slice(e, func(i, j int) bool {
		return e[i].Addr < e[j].Addr
	})
	return e
}

// List writes every string in the table to output, one per line, in address
// order. Unless all is true, strings containing unprintable characters are
// skipped; splitting a ROM image at NUL bytes produces a lot of entries that
// are not really strings at all.
func (t *StringTable) List(output io.Writer, all bool) {
	for _, e := range t.Entries() {
		if !all && !printable(e.Bytes) {
			continue
		}
		fmt.Fprintf(output, "%#08x -> %q\n", e.Addr, e.Bytes)
	}
}

// printable is true if the string consists of printable ASCII and common
// whitespace, up to the NUL terminator.
func printable(s string) bool {
	for i := 0; i < len(s)-1; i++ {
		c := s[i]
		if c == '\n' || c == '\r' || c == '\t' {
			continue
		}
		if c < 0x20 || c > 0x7e {
			return false
		}
	}
	return true
}
