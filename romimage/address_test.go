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

	"github.com/manicmole/romsquash/curated"
	"github.com/manicmole/romsquash/romimage"
	"github.com/manicmole/romsquash/test"
)

func TestParseAddress(t *testing.T) {
	addr, err := romimage.ParseAddress("0x850000")
	test.ExpectedSuccess(t, err)
	test.Equate(t, addr, 0x850000)

	addr, err = romimage.ParseAddress("0X850000")
	test.ExpectedSuccess(t, err)
	test.Equate(t, addr, 0x850000)

	addr, err = romimage.ParseAddress("1024")
	test.ExpectedSuccess(t, err)
	test.Equate(t, addr, 1024)

	// a leading zero is still decimal. there is no octal interpretation
	addr, err = romimage.ParseAddress("0010")
	test.ExpectedSuccess(t, err)
	test.Equate(t, addr, 10)

	addr, err = romimage.ParseAddress("0")
	test.ExpectedSuccess(t, err)
	test.Equate(t, addr, 0)
}

func TestParseAddressErrors(t *testing.T) {
	_, err := romimage.ParseAddress("")
	if test.ExpectedFailure(t, err) {
		test.ExpectedSuccess(t, curated.Is(err, romimage.InvalidAddress))
	}

	// hex digits without the prefix are not a number
	_, err = romimage.ParseAddress("85f3c8")
	test.ExpectedFailure(t, err)

	// out of range for 32 bits
	_, err = romimage.ParseAddress("0x100000000")
	test.ExpectedFailure(t, err)

	_, err = romimage.ParseAddress("-1")
	test.ExpectedFailure(t, err)

	_, err = romimage.ParseAddress("0x")
	test.ExpectedFailure(t, err)
}
