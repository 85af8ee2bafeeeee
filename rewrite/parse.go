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
	"strings"
)

// section anchor symbols created by the compiler all share this prefix.
const anchorPrefix = ".LANCHOR"

// the sections the compiler creates for function name symbols.
var functionSectionPrefixes = [...]string{
	".rodata.__FUNCTION__.",
	".rodata.__PRETTY_FUNCTION__.",
	".rodata.__func__.",
}

// sectionName returns the section name when the line is a .section directive.
func sectionName(line string) (string, bool) {
	f := strings.Fields(line)
	if len(f) < 2 || f[0] != ".section" {
		return "", false
	}

	// the name runs to the first comma. flags and attributes follow
	name := f[1]
	if i := strings.Index(name, ","); i >= 0 {
		name = name[:i]
	}
	return name, true
}

// isRodataSection is true for .rodata and any of its named subsections.
func isRodataSection(name string) bool {
	return name == ".rodata" || strings.HasPrefix(name, ".rodata.")
}

// isFunctionSection is true for the sections the compiler creates for
// function name symbols.
func isFunctionSection(name string) bool {
	for _, p := range functionSectionPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// labelName returns the symbol when the line is a label definition. A label
// definition starts in the first column and consists of symbol characters
// followed immediately by a colon at the end of the line.
func labelName(line string) (string, bool) {
	if len(line) < 2 || !strings.HasSuffix(line, ":") {
		return "", false
	}

	name := line[:len(line)-1]
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '.' || c == '_' || c == '$':
		default:
			return "", false
		}
	}

	return name, true
}

// asciiPayload returns the quoted payload when the line is an .ascii
// directive. The payload runs from the first double quote to the last double
// quote on the line, which keeps escaped quotes inside the string intact.
func asciiPayload(line string) (string, bool) {
	t := strings.TrimSpace(line)
	if !strings.HasPrefix(t, ".ascii") {
		return "", false
	}

	rest := t[len(".ascii"):]
	if len(rest) == 0 || (rest[0] != ' ' && rest[0] != '\t') {
		return "", false
	}

	first := strings.Index(rest, "\"")
	last := strings.LastIndex(rest, "\"")
	if first == -1 || last <= first {
		return "", false
	}

	return rest[first+1 : last], true
}

// directiveOperands splits a two-operand directive of the given name into
// its operands. Used for the .set, .type and .size directives, which all
// follow the same "<directive> <symbol>, <operand>" shape.
func directiveOperands(line string, directive string) (string, string, bool) {
	t := strings.TrimSpace(line)
	if !strings.HasPrefix(t, directive) {
		return "", "", false
	}

	rest := t[len(directive):]
	if len(rest) == 0 || (rest[0] != ' ' && rest[0] != '\t') {
		return "", "", false
	}

	i := strings.Index(rest, ",")
	if i < 0 {
		return "", "", false
	}

	sym := strings.TrimSpace(rest[:i])
	if sym == "" {
		return "", "", false
	}

	return sym, strings.TrimSpace(rest[i+1:]), true
}

// isObjectType is true when the operand of a .type directive declares an
// object. The type operand carries a dialect-dependent sigil.
func isObjectType(typ string) bool {
	typ = strings.TrimPrefix(typ, "%")
	typ = strings.TrimPrefix(typ, "@")
	return typ == "object"
}
