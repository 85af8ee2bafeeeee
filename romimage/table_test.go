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

package romimage_test

import (
	"testing"

	"github.com/manicmole/romsquash/romimage"
	"github.com/manicmole/romsquash/test"
)

func TestStringTable(t *testing.T) {
	img := []byte("main\x00hello, world\x00")
	tbl := romimage.NewStringTable(img, 0x1000)

	test.Equate(t, tbl.Len(), 2)

	addr, ok := tbl.Lookup("main\x00")
	test.ExpectedSuccess(t, ok)
	test.Equate(t, addr, 0x1000)

	addr, ok = tbl.Lookup("hello, world\x00")
	test.ExpectedSuccess(t, ok)
	test.Equate(t, addr, 0x1005)

	// lookup without the terminator must fail. the table stores terminated
	// strings only
	_, ok = tbl.Lookup("main")
	test.ExpectedFailure(t, ok)

	_, ok = tbl.Lookup("not in the image\x00")
	test.ExpectedFailure(t, ok)
}

func TestStringTableLastOccurrenceWins(t *testing.T) {
	img := []byte("dup\x00filler\x00dup\x00")
	tbl := romimage.NewStringTable(img, 0x2000)

	// "dup" appears at offsets 0 and 11. the last occurrence is the one
	// recorded
	addr, ok := tbl.Lookup("dup\x00")
	test.ExpectedSuccess(t, ok)
	test.Equate(t, addr, 0x200b)
}

func TestStringTableTrailingBytes(t *testing.T) {
	// bytes after the final NUL are not indexed
	img := []byte("one\x00incomplete")
	tbl := romimage.NewStringTable(img, 0)

	test.Equate(t, tbl.Len(), 1)

	_, ok := tbl.Lookup("incomplete")
	test.ExpectedFailure(t, ok)
	_, ok = tbl.Lookup("incomplete\x00")
	test.ExpectedFailure(t, ok)
}

func TestStringTableSuffix(t *testing.T) {
	img := []byte("hello, world\x00")
	tbl := romimage.NewStringTable(img, 0x1000)

	// "world" with terminator is stored as the tail of "hello, world"
	addr, ok := tbl.LookupSuffix("world\x00")
	test.ExpectedSuccess(t, ok)
	test.Equate(t, addr, 0x1007)

	// the whole string is not a suffix of itself for the purposes of
	// LookupSuffix. exact matches are the job of Lookup
	_, ok = tbl.LookupSuffix("hello, world\x00")
	test.ExpectedFailure(t, ok)

	// "war" is a substring but not a suffix
	_, ok = tbl.LookupSuffix("wor\x00")
	test.ExpectedFailure(t, ok)
}

func TestStringTableEntries(t *testing.T) {
	img := []byte("bbb\x00aaa\x00")
	tbl := romimage.NewStringTable(img, 0)

	// entries are returned in address order, not lexical order
	e := tbl.Entries()
	test.Equate(t, len(e), 2)
	test.Equate(t, e[0].Addr, 0)
	test.Equate(t, e[0].Bytes, "bbb\x00")
	test.Equate(t, e[1].Addr, 4)
	test.Equate(t, e[1].Bytes, "aaa\x00")
}

func TestStringTableList(t *testing.T) {
	img := []byte("ok\x00\x01\x02\x03\x00")
	tbl := romimage.NewStringTable(img, 0)

	// the entry of control characters is skipped unless all is requested
	tw := &test.Writer{}
	tbl.List(tw, false)
	test.Equate(t, tw.String(), "0x000000 -> \"ok\\x00\"\n")

	tw.Clear()
	tbl.List(tw, true)
	test.Equate(t, tw.String(), "0x000000 -> \"ok\\x00\"\n0x000003 -> \"\\x01\\x02\\x03\\x00\"\n")
}
