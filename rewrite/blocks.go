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
)

// literalBlock collects a label and its .ascii storage inside a read-only
// data section. raw is the decoded byte content of every .ascii line so far,
// including whatever NUL terminators the lines encode.
type literalBlock struct {
	label string
	lines []string
	raw   string
}

// functionBlock collects a function name symbol section. the section layout
// is rigid so the block records which part it expects next. raw is the
// decoded content of the single .ascii line.
type functionBlock struct {
	step   functionStep
	anchor string
	symbol string
	raw    string
	lines  []string
}

// resolveLiteral replaces the storage of a string literal block with a
// constant definition, provided the decoded content can be found in the
// image. blocks with no match are copied verbatim.
func (sc *scanner) resolveLiteral(lit *literalBlock) {
	addr, ok := sc.rwr.lookup(lit.raw)
	if !ok {
		logger.Logf("rewrite", "%s: no match in image", lit.label)
		sc.emitVerbatim(lit.lines)
		sc.res.Unmatched++
		return
	}

	logger.Logf("rewrite", "%s = %s", lit.label, formatAddr(addr))

	for _, l := range lit.lines {
		sc.emitComment(l)
	}
	sc.emitDefinition(lit.label, addr)

	sc.res.Resolved[lit.label] = formatAddr(addr)
	sc.res.LiteralsSquashed++
}

// resolveFunction replaces a function name symbol section with constant
// definitions for the symbol and, if present, the section anchor. unlike
// string literal blocks the content must match the image exactly. the
// anchor and the symbol identify the same address so only the symbol is
// recorded for the reference patching stage.
func (sc *scanner) resolveFunction(fb *functionBlock) {
	addr, ok := sc.rwr.table.Lookup(fb.raw)
	if !ok {
		logger.Logf("rewrite", "%s: no match in image", fb.symbol)
		sc.emitVerbatim(fb.lines)
		sc.res.Unmatched++
		return
	}

	logger.Logf("rewrite", "%s = %s", fb.symbol, formatAddr(addr))

	for _, l := range fb.lines {
		sc.emitComment(l)
	}
	if fb.anchor != "" {
		sc.emitDefinition(fb.anchor, addr)
	}
	sc.emitDefinition(fb.symbol, addr)

	sc.res.Resolved[fb.symbol] = formatAddr(addr)
	sc.res.FunctionsSquashed++
}

func (sc *scanner) emitDefinition(sym string, addr uint32) {
	sc.output.WriteString(fmt.Sprintf("%s = %s\n", sym, formatAddr(addr)))
}
