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
	"fmt"

	"github.com/manicmole/romsquash/logger"
	"github.com/manicmole/romsquash/romimage"
)

// Rewriter transforms assembly so that read-only strings already present in
// a ROM image are referenced rather than stored again.
type Rewriter struct {
	table *romimage.StringTable

	// the character sequence that introduces a comment in the assembly
	// dialect being rewritten
	CommentLeader string
}

// NewRewriter is the preferred method of initialisation for the Rewriter
// type. the comment leader defaults to the arm convention.
func NewRewriter(table *romimage.StringTable) *Rewriter {
	return &Rewriter{
		table:         table,
		CommentLeader: "@",
	}
}

// lookup finds the address of a decoded string in the image. exact matches
// are preferred. failing that, a string stored in the image may end with the
// wanted string, in which case the address is adjusted to where the wanted
// suffix begins.
func (rwr *Rewriter) lookup(raw string) (uint32, bool) {
	if addr, ok := rwr.table.Lookup(raw); ok {
		return addr, true
	}
	return rwr.table.LookupSuffix(raw)
}

func formatAddr(addr uint32) string {
	return fmt.Sprintf("%#x", addr)
}

// Result summarises a rewrite of one assembly file. Buffer is the complete
// rewritten text and is only worth committing if any of the counts are
// non-zero.
type Result struct {
	Buffer string

	// labels that now have a constant definition, keyed by label name with
	// the formatted address as the value
	Resolved map[string]string

	LiteralsSquashed  int
	FunctionsSquashed int
	Unmatched         int
	PuntedSections    int
	ReferencesPatched int
}

// Rewrite runs the full transformation over the lines of an assembly file.
// the input is never modified. an error means the output buffer must not be
// used, let alone committed.
func (rwr *Rewriter) Rewrite(lines []string) (*Result, error) {
	sc := &scanner{
		rwr: rwr,
		res: &Result{
			Resolved: make(map[string]string),
		},
	}

	for i := 0; i < len(lines); {
		redo, err := sc.step(lines[i])
		if err != nil {
			return nil, err
		}
		if !redo {
			i++
		}
	}

	if err := sc.finish(); err != nil {
		return nil, err
	}

	res := sc.res
	res.Buffer, res.ReferencesPatched = patchReferences(sc.output.String(), res.Resolved, rwr.CommentLeader)

	logger.Logf("rewrite", "%d literals and %d function names squashed, %d references patched",
		res.LiteralsSquashed, res.FunctionsSquashed, res.ReferencesPatched)

	return res, nil
}
