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

package curated_test

import (
	"errors"
	"testing"

	"github.com/manicmole/romsquash/curated"
)

func TestDeduplication(t *testing.T) {
	e := curated.Errorf("romimage: %v", "not enough bytes")
	if e.Error() != "romimage: not enough bytes" {
		t.Errorf("unexpected error message")
	}

	// wrapping errors with the same leading part next to each other causes
	// one of them to be dropped
	f := curated.Errorf("romimage: %v", e)
	if f.Error() != "romimage: not enough bytes" {
		t.Errorf("unexpected duplicate error message")
	}
}

func TestIsChecks(t *testing.T) {
	const notEnoughBytes = "romimage: not enough bytes (%d)"

	e := curated.Errorf(notEnoughBytes, 10)

	if !curated.IsAny(e) {
		t.Errorf("expected error to be curated")
	}
	if !curated.Is(e, notEnoughBytes) {
		t.Errorf("expected pattern to match")
	}
	if curated.Is(e, "some other pattern") {
		t.Errorf("did not expect pattern to match")
	}

	// uncurated errors match nothing
	p := errors.New("plain error")
	if curated.IsAny(p) {
		t.Errorf("did not expect plain error to be curated")
	}
	if curated.Is(p, "plain error") {
		t.Errorf("did not expect plain error to match by pattern")
	}
}

func TestHasChecks(t *testing.T) {
	const notEnoughBytes = "romimage: not enough bytes (%d)"

	e := curated.Errorf(notEnoughBytes, 10)
	f := curated.Errorf("romsquash: %v", e)

	// Is() only looks at the outermost error but Has() digs through the chain
	if curated.Is(f, notEnoughBytes) {
		t.Errorf("did not expect outer error to match wrapped pattern")
	}
	if !curated.Has(f, notEnoughBytes) {
		t.Errorf("expected wrapped pattern to be found in chain")
	}
	if curated.Has(f, "some other pattern") {
		t.Errorf("did not expect pattern to be found in chain")
	}
}
