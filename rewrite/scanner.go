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

	"github.com/manicmole/romsquash/curated"
	"github.com/manicmole/romsquash/logger"
)

// sentinel error for input that ends while a block is still being collected.
const UnexpectedEndOfInput = "rewrite: unexpected end of input (%s)"

// the state the scanner is in decides how the current line is interpreted.
type scanState int

const (
	// not inside any read-only data section. lines are copied verbatim
	stateOutside scanState = iota

	// inside a plain .rodata section, watching for label definitions that
	// open string literal blocks
	stateRodata

	// inside a .rodata section that defined a section anchor. everything up
	// to the next .section directive is copied verbatim
	statePunted

	// collecting the .ascii lines of a string literal block
	stateLiteral

	// collecting a function name symbol section
	stateFunction
)

// scanner walks the assembly one line at a time. each step consumes the
// current line unless it returns redo, in which case the same line is
// presented again in whatever state the step has switched to. steps never
// read ahead or behind, so there is no rewinding of input.
type scanner struct {
	rwr *Rewriter
	res *Result

	output strings.Builder

	state scanState
	lit   *literalBlock
	fn    *functionBlock
}

// step processes a single line. the returned redo flag asks the caller to
// present the same line again.
func (sc *scanner) step(line string) (redo bool, err error) {
	switch sc.state {
	case stateOutside:
		return sc.stepOutside(line)
	case stateRodata:
		return sc.stepRodata(line)
	case statePunted:
		return sc.stepPunted(line)
	case stateLiteral:
		return sc.stepLiteral(line)
	case stateFunction:
		return sc.stepFunction(line)
	}
	return false, curated.Errorf("rewrite: illegal scanner state (%d)", sc.state)
}

// finish is called after the last line. input that ends while a block is
// still being collected is malformed and fails the whole run.
func (sc *scanner) finish() error {
	switch sc.state {
	case stateLiteral:
		return curated.Errorf(UnexpectedEndOfInput, "inside string literal block")
	case stateFunction:
		return curated.Errorf(UnexpectedEndOfInput, "inside function symbol section")
	}
	return nil
}

func (sc *scanner) stepOutside(line string) (bool, error) {
	if name, ok := sectionName(line); ok {
		if isFunctionSection(name) {
			sc.fn = &functionBlock{step: stepAnchorOrType, lines: []string{line}}
			sc.state = stateFunction
			return false, nil
		}
		if isRodataSection(name) {
			sc.emitLine(line)
			sc.state = stateRodata
			return false, nil
		}
	}

	sc.emitLine(line)
	return false, nil
}

func (sc *scanner) stepRodata(line string) (bool, error) {
	// a new section of any kind ends this one
	if _, ok := sectionName(line); ok {
		sc.state = stateOutside
		return true, nil
	}

	// a section anchor means the compiler addresses the section contents
	// relative to the anchor. removing strings would change the offset of
	// everything stored after them, so the rest of the section is copied
	// verbatim
	if sym, _, ok := directiveOperands(line, ".set"); ok && strings.HasPrefix(sym, anchorPrefix) {
		logger.Logf("rewrite", "section anchor %s: section left alone", sym)
		sc.res.PuntedSections++
		sc.emitLine(line)
		sc.state = statePunted
		return false, nil
	}

	if label, ok := labelName(line); ok {
		sc.lit = &literalBlock{label: label, lines: []string{line}}
		sc.state = stateLiteral
		return false, nil
	}

	sc.emitLine(line)
	return false, nil
}

func (sc *scanner) stepPunted(line string) (bool, error) {
	if _, ok := sectionName(line); ok {
		sc.state = stateOutside
		return true, nil
	}

	sc.emitLine(line)
	return false, nil
}

func (sc *scanner) stepLiteral(line string) (bool, error) {
	if payload, ok := asciiPayload(line); ok {
		decoded, err := DecodeEscapes(payload)
		if err != nil {
			return false, err
		}
		sc.lit.raw += decoded
		sc.lit.lines = append(sc.lit.lines, line)
		return false, nil
	}

	// the line is not part of the block. a label with no .ascii lines is not
	// a string literal at all and passes through untouched
	if len(sc.lit.lines) == 1 {
		sc.emitVerbatim(sc.lit.lines)
	} else {
		sc.resolveLiteral(sc.lit)
	}

	sc.lit = nil
	sc.state = stateRodata
	return true, nil
}

// the part of a function name symbol section the scanner expects next.
type functionStep int

const (
	stepAnchorOrType functionStep = iota
	stepType
	stepSizeOrLabel
	stepLabel
	stepAscii
)

func (sc *scanner) stepFunction(line string) (bool, error) {
	fb := sc.fn

	switch fb.step {
	case stepAnchorOrType:
		if sym, expr, ok := directiveOperands(line, ".set"); ok {
			if !strings.HasPrefix(sym, anchorPrefix) || expr != ". + 0" {
				return sc.abortFunction()
			}
			fb.anchor = sym
			fb.lines = append(fb.lines, line)
			fb.step = stepType
			return false, nil
		}
		return sc.expectType(line)

	case stepType:
		return sc.expectType(line)

	case stepSizeOrLabel:
		if sym, _, ok := directiveOperands(line, ".size"); ok {
			if sym != fb.symbol {
				return sc.abortFunction()
			}
			fb.lines = append(fb.lines, line)
			fb.step = stepLabel
			return false, nil
		}
		return sc.expectLabel(line)

	case stepLabel:
		return sc.expectLabel(line)

	case stepAscii:
		payload, ok := asciiPayload(line)
		if !ok {
			return sc.abortFunction()
		}

		decoded, err := DecodeEscapes(payload)
		if err != nil {
			return false, err
		}

		fb.raw = decoded
		fb.lines = append(fb.lines, line)

		sc.resolveFunction(fb)
		sc.fn = nil
		sc.state = stateOutside
		return false, nil
	}

	return false, curated.Errorf("rewrite: illegal function block step (%d)", fb.step)
}

func (sc *scanner) expectType(line string) (bool, error) {
	sym, typ, ok := directiveOperands(line, ".type")
	if !ok || !isObjectType(typ) {
		return sc.abortFunction()
	}

	sc.fn.symbol = sym
	sc.fn.lines = append(sc.fn.lines, line)
	sc.fn.step = stepSizeOrLabel
	return false, nil
}

func (sc *scanner) expectLabel(line string) (bool, error) {
	label, ok := labelName(line)
	if !ok || label != sc.fn.symbol {
		return sc.abortFunction()
	}

	sc.fn.lines = append(sc.fn.lines, line)
	sc.fn.step = stepAscii
	return false, nil
}

// abortFunction copies the lines collected so far verbatim and asks for the
// deviating line to be presented again in the default state.
func (sc *scanner) abortFunction() (bool, error) {
	logger.Log("rewrite", "unexpected layout in function symbol section")
	sc.emitVerbatim(sc.fn.lines)
	sc.fn = nil
	sc.state = stateOutside
	return true, nil
}

func (sc *scanner) emitLine(line string) {
	sc.output.WriteString(line)
	sc.output.WriteString("\n")
}

func (sc *scanner) emitVerbatim(lines []string) {
	for _, l := range lines {
		sc.emitLine(l)
	}
}

func (sc *scanner) emitComment(line string) {
	sc.output.WriteString(sc.rwr.CommentLeader)
	sc.output.WriteString(" ")
	sc.output.WriteString(line)
	sc.output.WriteString("\n")
}
