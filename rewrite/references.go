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

const wordPrefix = "\t.word\t"

// patchReferences replaces word storage of a resolved label with the
// address the label now stands for. the original label is kept as a
// trailing comment. the replacement only fires when the entire operand is a
// resolved label, so a patched line can never be patched again.
func patchReferences(buffer string, resolved map[string]string, leader string) (string, int) {
	if len(resolved) == 0 {
		return buffer, 0
	}

	count := 0

	lines := strings.Split(buffer, "\n")
	for i, line := range lines {
		if !strings.HasPrefix(line, wordPrefix) {
			continue
		}

		operand := line[len(wordPrefix):]
		if addr, ok := resolved[operand]; ok {
			lines[i] = strings.Join([]string{wordPrefix, addr, "\t", leader, " ", operand}, "")
			count++
		}
	}

	return strings.Join(lines, "\n"), count
}
