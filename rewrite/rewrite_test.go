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

package rewrite_test

import (
	"strings"
	"testing"

	"github.com/manicmole/romsquash/curated"
	"github.com/manicmole/romsquash/rewrite"
	"github.com/manicmole/romsquash/romimage"
	"github.com/manicmole/romsquash/test"
)

// imageAt builds an image where content starts at the given offset. the
// bytes before the content are NUL and index as empty strings.
func imageAt(offset int, content string) []byte {
	data := make([]byte, offset)
	return append(data, []byte(content)...)
}

func TestRewrite(t *testing.T) {
	table := romimage.NewStringTable(
		imageAt(0x5f3c8, "This is part of a string and this particular one spans multiple lines.\n\x00"),
		0x800000)
	rwr := rewrite.NewRewriter(table)

	lines := []string{
		"\t.text",
		"\t.section\t.rodata.str1.4,\"aMS\",%progbits,1",
		"\t.align\t2",
		".LC0:",
		"\t.ascii\t\"This is part of a string and this \"",
		"\t.ascii\t\"particular one spans multiple lines.\\n\\000\"",
		"\t.text",
		"\t.word\t.LC0",
	}

	res, err := rwr.Rewrite(lines)
	test.ExpectedSuccess(t, err)
	test.Equate(t, res.LiteralsSquashed, 1)
	test.Equate(t, res.ReferencesPatched, 1)
	test.Equate(t, res.Resolved[".LC0"], "0x85f3c8")

	expected := strings.Join([]string{
		"\t.text",
		"\t.section\t.rodata.str1.4,\"aMS\",%progbits,1",
		"\t.align\t2",
		"@ .LC0:",
		"@ \t.ascii\t\"This is part of a string and this \"",
		"@ \t.ascii\t\"particular one spans multiple lines.\\n\\000\"",
		".LC0 = 0x85f3c8",
		"\t.text",
		"\t.word\t0x85f3c8\t@ .LC0",
		"",
	}, "\n")
	test.Equate(t, res.Buffer, expected)
}

func TestRewriteIdempotence(t *testing.T) {
	table := romimage.NewStringTable(imageAt(0, "a string in the image\x00"), 0x800000)
	rwr := rewrite.NewRewriter(table)

	lines := []string{
		"\t.section\t.rodata",
		".LC0:",
		"\t.ascii\t\"a string in the image\\000\"",
		"\t.text",
		"\t.word\t.LC0",
	}

	res, err := rwr.Rewrite(lines)
	test.ExpectedSuccess(t, err)
	test.Equate(t, res.LiteralsSquashed, 1)

	// a second run over the rewritten output changes nothing. the string
	// body is gone so there is nothing left to match
	again := strings.Split(res.Buffer, "\n")
	again = again[:len(again)-1]

	res2, err := rwr.Rewrite(again)
	test.ExpectedSuccess(t, err)
	test.Equate(t, res2.LiteralsSquashed, 0)
	test.Equate(t, res2.ReferencesPatched, 0)
	test.Equate(t, res2.Buffer, res.Buffer)
}

func TestSuffixMatch(t *testing.T) {
	table := romimage.NewStringTable(imageAt(0x10, "HELLO\x00"), 0x800000)
	rwr := rewrite.NewRewriter(table)

	lines := []string{
		"\t.section\t.rodata",
		".LC1:",
		"\t.ascii\t\"LLO\\000\"",
		"\t.text",
	}

	res, err := rwr.Rewrite(lines)
	test.ExpectedSuccess(t, err)
	test.Equate(t, res.LiteralsSquashed, 1)
	test.Equate(t, res.Resolved[".LC1"], "0x800012")
}

func TestUnmatchedLiteral(t *testing.T) {
	table := romimage.NewStringTable(imageAt(0, "something else\x00"), 0x800000)
	rwr := rewrite.NewRewriter(table)

	lines := []string{
		"\t.section\t.rodata",
		".LC2:",
		"\t.ascii\t\"not in the image\\000\"",
		"\t.text",
	}

	res, err := rwr.Rewrite(lines)
	test.ExpectedSuccess(t, err)
	test.Equate(t, res.LiteralsSquashed, 0)
	test.Equate(t, res.Unmatched, 1)
	test.Equate(t, res.Buffer, strings.Join(lines, "\n")+"\n")
}

func TestSectionAnchorPunt(t *testing.T) {
	table := romimage.NewStringTable(imageAt(0, "SECRET\x00"), 0x800000)
	rwr := rewrite.NewRewriter(table)

	// the anchored section is left alone even though its string matches.
	// the next section is rewritten as normal
	lines := []string{
		"\t.section\t.rodata",
		"\t.set\t.LANCHOR0,. + 0",
		".LC3:",
		"\t.ascii\t\"SECRET\\000\"",
		"\t.section\t.rodata.str1.1,\"aMS\",%progbits,1",
		".LC4:",
		"\t.ascii\t\"SECRET\\000\"",
		"\t.text",
	}

	res, err := rwr.Rewrite(lines)
	test.ExpectedSuccess(t, err)
	test.Equate(t, res.PuntedSections, 1)
	test.Equate(t, res.LiteralsSquashed, 1)

	if _, ok := res.Resolved[".LC3"]; ok {
		t.Errorf("label in anchored section should not have been resolved")
	}
	test.Equate(t, res.Resolved[".LC4"], "0x800000")

	if !strings.Contains(res.Buffer, "\n.LC3:\n\t.ascii\t\"SECRET\\000\"\n") {
		t.Errorf("anchored section was not copied verbatim")
	}
}

func TestLabelWithoutStorage(t *testing.T) {
	table := romimage.NewStringTable(imageAt(0, "x\x00"), 0x800000)
	rwr := rewrite.NewRewriter(table)

	// a label followed by something other than .ascii is not a string
	// constant and passes through untouched
	lines := []string{
		"\t.section\t.rodata",
		".LC5:",
		"\t.word\t5",
		"\t.text",
	}

	res, err := rwr.Rewrite(lines)
	test.ExpectedSuccess(t, err)
	test.Equate(t, res.LiteralsSquashed, 0)
	test.Equate(t, res.Unmatched, 0)
	test.Equate(t, res.Buffer, strings.Join(lines, "\n")+"\n")
}

func TestFunctionSymbol(t *testing.T) {
	table := romimage.NewStringTable(imageAt(0x20, "main\x00"), 0x800000)
	rwr := rewrite.NewRewriter(table)

	lines := []string{
		"\t.section\t.rodata.__FUNCTION__.main,\"a\",%progbits",
		"\t.set\t.LANCHOR0,. + 0",
		"\t.type\t__FUNCTION__.main, %object",
		"\t.size\t__FUNCTION__.main, 5",
		"__FUNCTION__.main:",
		"\t.ascii\t\"main\\000\"",
		"\t.text",
		"\t.word\t__FUNCTION__.main",
	}

	res, err := rwr.Rewrite(lines)
	test.ExpectedSuccess(t, err)
	test.Equate(t, res.FunctionsSquashed, 1)
	test.Equate(t, res.ReferencesPatched, 1)
	test.Equate(t, res.Resolved["__FUNCTION__.main"], "0x800020")

	// the anchor is redefined alongside the symbol but word references
	// only ever name the symbol
	if _, ok := res.Resolved[".LANCHOR0"]; ok {
		t.Errorf("anchor should not be recorded for reference patching")
	}
	if !strings.Contains(res.Buffer, "\n.LANCHOR0 = 0x800020\n__FUNCTION__.main = 0x800020\n") {
		t.Errorf("anchor redefinition should come immediately before the symbol definition")
	}
	if !strings.Contains(res.Buffer, "\t.word\t0x800020\t@ __FUNCTION__.main\n") {
		t.Errorf("word reference was not patched")
	}
}

func TestFunctionSymbolMinimal(t *testing.T) {
	table := romimage.NewStringTable(imageAt(0, "do\x00"), 0x800000)
	rwr := rewrite.NewRewriter(table)

	// anchor and size are both optional
	lines := []string{
		"\t.section\t.rodata.__func__.do,\"a\",%progbits",
		"\t.type\t__func__.do, %object",
		"__func__.do:",
		"\t.ascii\t\"do\\000\"",
		"\t.text",
	}

	res, err := rwr.Rewrite(lines)
	test.ExpectedSuccess(t, err)
	test.Equate(t, res.FunctionsSquashed, 1)
	test.Equate(t, res.Resolved["__func__.do"], "0x800000")

	if strings.Contains(res.Buffer, ".LANCHOR") {
		t.Errorf("no anchor definition expected")
	}
}

func TestFunctionSymbolAborts(t *testing.T) {
	table := romimage.NewStringTable(imageAt(0, "f\x00g\x00"), 0x800000)
	rwr := rewrite.NewRewriter(table)

	// a .type naming anything other than an object abandons the block.
	// every line, the .section directive included, survives unchanged
	lines := []string{
		"\t.section\t.rodata.__FUNCTION__.f,\"a\",%progbits",
		"\t.type\tf, %function",
		"f:",
		"\t.ascii\t\"f\\000\"",
		"\t.text",
	}

	res, err := rwr.Rewrite(lines)
	test.ExpectedSuccess(t, err)
	test.Equate(t, res.FunctionsSquashed, 0)
	test.Equate(t, res.Buffer, strings.Join(lines, "\n")+"\n")

	// a label that does not repeat the declared symbol name also abandons
	// the block
	lines = []string{
		"\t.section\t.rodata.__FUNCTION__.g,\"a\",%progbits",
		"\t.type\tg, %object",
		"other:",
		"\t.ascii\t\"g\\000\"",
		"\t.text",
	}

	res, err = rwr.Rewrite(lines)
	test.ExpectedSuccess(t, err)
	test.Equate(t, res.FunctionsSquashed, 0)
	test.Equate(t, res.Buffer, strings.Join(lines, "\n")+"\n")
}

func TestUnexpectedEndOfInput(t *testing.T) {
	table := romimage.NewStringTable(imageAt(0, "a\x00"), 0x800000)
	rwr := rewrite.NewRewriter(table)

	// ending after a label line
	_, err := rwr.Rewrite([]string{
		"\t.section\t.rodata",
		".LC0:",
	})
	test.ExpectedFailure(t, err)
	if !curated.Is(err, rewrite.UnexpectedEndOfInput) {
		t.Errorf("expected the end of input sentinel")
	}

	// ending after an .ascii continuation line
	_, err = rwr.Rewrite([]string{
		"\t.section\t.rodata",
		".LC0:",
		"\t.ascii\t\"a\\000\"",
	})
	test.ExpectedFailure(t, err)
	if !curated.Is(err, rewrite.UnexpectedEndOfInput) {
		t.Errorf("expected the end of input sentinel")
	}

	// ending part way through a function symbol section
	_, err = rwr.Rewrite([]string{
		"\t.section\t.rodata.__FUNCTION__.f,\"a\",%progbits",
		"\t.type\tf, %object",
	})
	test.ExpectedFailure(t, err)
	if !curated.Is(err, rewrite.UnexpectedEndOfInput) {
		t.Errorf("expected the end of input sentinel")
	}
}

func TestWordReferenceShape(t *testing.T) {
	table := romimage.NewStringTable(imageAt(0, "abc\x00"), 0x800000)
	rwr := rewrite.NewRewriter(table)

	// only a tab-delimited word line whose operand is exactly a resolved
	// label is patched. expressions and unresolved labels are left alone
	lines := []string{
		"\t.section\t.rodata",
		".LC0:",
		"\t.ascii\t\"abc\\000\"",
		"\t.text",
		"\t.word\t.LC0",
		"\t.word\t.LC0+4",
		"\t.word\t.LC9",
	}

	res, err := rwr.Rewrite(lines)
	test.ExpectedSuccess(t, err)
	test.Equate(t, res.ReferencesPatched, 1)

	if !strings.Contains(res.Buffer, "\t.word\t0x800000\t@ .LC0\n") {
		t.Errorf("word reference was not patched")
	}
	if !strings.Contains(res.Buffer, "\t.word\t.LC0+4\n") {
		t.Errorf("word expression should not have been patched")
	}
	if !strings.Contains(res.Buffer, "\t.word\t.LC9\n") {
		t.Errorf("unresolved label should not have been patched")
	}
}

func TestMalformedEscapeAborts(t *testing.T) {
	table := romimage.NewStringTable(imageAt(0, "a\x00"), 0x800000)
	rwr := rewrite.NewRewriter(table)

	res, err := rwr.Rewrite([]string{
		"\t.section\t.rodata",
		".LC0:",
		"\t.ascii\t\"bad\\q\"",
		"\t.text",
	})
	test.ExpectedFailure(t, err)
	if !curated.Is(err, rewrite.UnrecognisedEscape) {
		t.Errorf("expected the unrecognised escape sentinel")
	}
	if res != nil {
		t.Errorf("no result expected from a failed rewrite")
	}
}
