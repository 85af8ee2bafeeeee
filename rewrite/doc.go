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

// Package rewrite replaces read-only string storage in assembly files with
// addresses of identical strings in a ROM image.
//
// Compilers place string literals in .rodata sections, as a label followed by
// one or more .ascii directives. When the very same bytes, NUL terminator
// included, are already present in a ROM image that the final program will be
// able to address, there is no need to store them a second time. The Rewriter
// comments out the storage and defines the label as an absolute address
// instead:
//
//	@ .LC0:
//	@ 	.ascii	"hello, world\012\000"
//	.LC0 = 0x85f3c8
//
// The label keeps working in all addressing contexts because the assembler
// now treats it as an absolute symbol. The commented lines are kept for the
// benefit of anyone reading the rewritten file.
//
// The same treatment is applied to the sections the compiler creates for
// __FUNCTION__, __PRETTY_FUNCTION__ and __func__ symbols. These follow a
// fixed layout: a .section directive, an optional .LANCHOR constant, a .type
// directive declaring an object, an optional .size directive, the symbol
// label and exactly one .ascii directive. A section that deviates from the
// layout is passed through untouched.
//
// Two details of plain .rodata sections need care. A .set directive defining
// a .LANCHOR symbol means the compiler is addressing the section contents
// relative to a section anchor; removing individual strings would change the
// offsets of everything after them, so the whole section is passed through
// untouched. And string data only matches the image when its decoded byte
// form does: the .ascii payloads are unescaped (octal, hex and the usual
// C-style character escapes) before being looked up.
//
// Matching is by exact byte equality first. A literal that fails the exact
// lookup is also tried as the suffix of a longer stored string, with the
// resolved address adjusted to point directly at the suffix. This catches the
// common case of a short string that the compiler or linker merged into the
// tail of a longer one.
//
// After the whole file has been scanned, a second pass rewrites word-sized
// references. A line of the form
//
//	.word	.LC0
//
// referring to a resolved label is replaced with the address itself, with the
// original label kept in a trailing comment. Both passes produce output that
// is a fixed point: running the Rewriter over its own output changes nothing.
//
// The Rewriter works entirely in memory. Input is a slice of lines and output
// is a single buffer in the returned Result. Nothing is written to disk by
// this package.
package rewrite
