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
	"strconv"
	"strings"

	"github.com/manicmole/romsquash/curated"
)

// sentinel error for ParseAddress failure.
const InvalidAddress = "romimage: invalid address (%s)"

// ParseAddress converts an address string to a number. Strings with an
// explicit "0x" or "0X" prefix are treated as hexadecimal and anything else
// as decimal. A leading zero does not select octal, which strconv base zero
// would allow and which is never what the author of a linker script means.
func ParseAddress(s string) (uint32, error) {
	var n uint64
	var err error

	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		n, err = strconv.ParseUint(s[2:], 16, 32)
	} else {
		n, err = strconv.ParseUint(s, 10, 32)
	}
	if err != nil {
		return 0, curated.Errorf(InvalidAddress, s)
	}

	return uint32(n), nil
}
