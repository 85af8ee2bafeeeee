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
	"os"
	"path/filepath"
	"testing"

	"github.com/manicmole/romsquash/romimage"
	"github.com/manicmole/romsquash/test"
)

func TestNewLoaderFormats(t *testing.T) {
	ld := romimage.NewLoader("image.bin")
	test.Equate(t, ld.Format, romimage.FormatBinary)

	ld = romimage.NewLoader("image.rom")
	test.Equate(t, ld.Format, romimage.FormatBinary)

	// unrecognised extensions are treated as flat binary
	ld = romimage.NewLoader("image")
	test.Equate(t, ld.Format, romimage.FormatBinary)

	ld = romimage.NewLoader("image.hex")
	test.Equate(t, ld.Format, romimage.FormatHex)

	ld = romimage.NewLoader("image.IHX")
	test.Equate(t, ld.Format, romimage.FormatHex)

	test.Equate(t, ld.ShortName(), "image")
	test.Equate(t, ld.HasLoaded(), false)
}

func TestLoaderBinary(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "image.bin")
	if err := os.WriteFile(fn, []byte("main\x00"), 0600); err != nil {
		t.Fatalf("could not prepare image file: %s", err)
	}

	ld := romimage.NewLoader(fn)
	err := ld.Load()
	test.ExpectedSuccess(t, err)
	test.Equate(t, ld.HasLoaded(), true)
	test.Equate(t, string(ld.Data), "main\x00")

	// the recorded hash validates a second load of the same file
	vld := romimage.NewLoader(fn)
	vld.Hash = ld.Hash
	test.ExpectedSuccess(t, vld.Load())

	// a wrong hash is an error
	wld := romimage.NewLoader(fn)
	wld.Hash = "0000000000000000000000000000000000000000"
	test.ExpectedFailure(t, wld.Load())
}

func TestLoaderMissingFile(t *testing.T) {
	ld := romimage.NewLoader(filepath.Join(t.TempDir(), "no such image.bin"))
	test.ExpectedFailure(t, ld.Load())
}

func TestLoaderIntelHex(t *testing.T) {
	// two data segments with a gap between them. 3 bytes at 0x0010 and 2
	// bytes at 0x0018
	hex := ":030010006162002A\n" +
		":02001800630083\n" +
		":00000001FF\n"

	fn := filepath.Join(t.TempDir(), "image.hex")
	if err := os.WriteFile(fn, []byte(hex), 0600); err != nil {
		t.Fatalf("could not prepare image file: %s", err)
	}

	ld := romimage.NewLoader(fn)
	err := ld.Load()
	test.ExpectedSuccess(t, err)

	// flattened data runs from the lowest segment address to the end of the
	// highest segment, with the gap filled with 0xff
	test.Equate(t, ld.HexOrigin, 0x10)
	test.Equate(t, string(ld.Data), "ab\x00\xff\xff\xff\xff\xffc\x00")
}

func TestLoaderIntelHexCorrupt(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "image.hex")
	if err := os.WriteFile(fn, []byte(":03001000616200ff\n"), 0600); err != nil {
		t.Fatalf("could not prepare image file: %s", err)
	}

	ld := romimage.NewLoader(fn)
	test.ExpectedFailure(t, ld.Load())
}
