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

package regression

import (
	"crypto/sha1"
	"fmt"
	"io"
	"strings"

	"github.com/manicmole/romsquash/asmfile"
	"github.com/manicmole/romsquash/curated"
	"github.com/manicmole/romsquash/database"
	"github.com/manicmole/romsquash/rewrite"
	"github.com/manicmole/romsquash/romimage"
)

const squashEntryID = "squash"

const (
	squashFieldBase int = iota
	squashFieldROM
	squashFieldASM
	squashFieldNotes
	squashFieldDigest
	numSquashFields
)

// SquashRegression is a regression test that runs the rewriter over an
// assembly file, in memory only, and compares a digest of the rewritten
// buffer against the digest recorded when the test was added. the assembly
// file on disk is never changed by a regression run.
type SquashRegression struct {
	Base  string
	ROM   string
	ASM   string
	Notes string

	digest string
}

func deserialiseSquashEntry(fields database.SerialisedEntry) (database.Entry, error) {
	reg := &SquashRegression{}

	// basic sanity check
	if len(fields) != numSquashFields {
		return nil, curated.Errorf("squash: %v", "wrong number of fields in database entry")
	}

	reg.Base = fields[squashFieldBase]
	reg.ROM = fields[squashFieldROM]
	reg.ASM = fields[squashFieldASM]
	reg.Notes = fields[squashFieldNotes]
	reg.digest = fields[squashFieldDigest]

	// check the base address now rather than when the test is run
	if _, err := romimage.ParseAddress(reg.Base); err != nil {
		return nil, curated.Errorf("squash: %v", err)
	}

	return reg, nil
}

// ID implements the database.Entry interface.
func (reg SquashRegression) ID() string {
	return squashEntryID
}

// String implements the database.Entry interface.
func (reg SquashRegression) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("[%s] %s %s %s", reg.ID(), reg.Base, reg.ROM, reg.ASM))
	if reg.Notes != "" {
		s.WriteString(fmt.Sprintf(" [%s]", reg.Notes))
	}
	return s.String()
}

// Serialise implements the database.Entry interface.
func (reg *SquashRegression) Serialise() (database.SerialisedEntry, error) {
	return database.SerialisedEntry{
		reg.Base,
		reg.ROM,
		reg.ASM,
		reg.Notes,
		reg.digest,
	}, nil
}

// CleanUp implements the database.Entry interface. there are no support
// files to remove.
func (reg SquashRegression) CleanUp() error {
	return nil
}

// regress implements the Regressor interface.
func (reg *SquashRegression) regress(newRegression bool, output io.Writer, msg string) (bool, error) {
	output.Write([]byte(msg))

	addr, err := romimage.ParseAddress(reg.Base)
	if err != nil {
		return false, curated.Errorf("squash: %v", err)
	}

	ld := romimage.NewLoader(reg.ROM)
	if err := ld.Load(); err != nil {
		return false, curated.Errorf("squash: %v", err)
	}

	asm, err := asmfile.Load(reg.ASM)
	if err != nil {
		return false, curated.Errorf("squash: %v", err)
	}

	table := romimage.NewStringTable(ld.Data, addr)

	res, err := rewrite.NewRewriter(table).Rewrite(asm.Lines)
	if err != nil {
		return false, curated.Errorf("squash: %v", err)
	}

	digest := fmt.Sprintf("%x", sha1.Sum([]byte(res.Buffer)))

	if newRegression {
		reg.digest = digest
		return true, nil
	}

	return digest == reg.digest, nil
}
