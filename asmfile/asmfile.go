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

// Package asmfile loads and writes the assembly files that are being
// squashed.
//
// Files are loaded whole and split into lines for the rewrite package to work
// on. Writing happens through the Commit() function, which replaces the file
// content in one operation. The idea is that a file is only ever rewritten
// from a completely assembled buffer. If anything goes wrong during
// rewriting, Commit() is never reached and the file on disk is untouched.
package asmfile

import (
	"os"
	"path"
	"strings"

	"github.com/manicmole/romsquash/curated"
	"github.com/manicmole/romsquash/logger"
)

// sentinel error returned when the file extension is not in FileExtensions.
const UnrecognisedExtension = "asmfile: unrecognised file extension (%s)"

// FileExtensions is the list of file extensions that are recognised by the
// asmfile package.
var FileExtensions = [...]string{".S", ".ASM"}

// File is an assembly file loaded into memory.
type File struct {
	// filename of assembly file as passed to Load()
	Filename string

	// the file content split into lines. line terminators are not included
	Lines []string

	// file mode of the loaded file, reused when the file is rewritten
	mode os.FileMode
}

// Load reads the named assembly file and splits it into lines.
//
// Files with an extension not listed in FileExtensions are rejected. The
// extension check is case insensitive, covering the common convention of .s
// for assembler output and .S for assembly that is run through the C
// preprocessor.
func Load(filename string) (*File, error) {
	ext := strings.ToUpper(path.Ext(filename))

	recognised := false
	for _, e := range FileExtensions {
		if ext == e {
			recognised = true
			break // for loop
		}
	}
	if !recognised {
		return nil, curated.Errorf(UnrecognisedExtension, path.Ext(filename))
	}

	fi, err := os.Stat(filename)
	if err != nil {
		return nil, curated.Errorf("asmfile: %v", err)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, curated.Errorf("asmfile: %v", err)
	}

	f := &File{
		Filename: filename,
		mode:     fi.Mode(),
	}

	// split into lines, dropping the empty string a trailing newline
	// produces. a file that does not end with a newline will gain one when
	// the file is rewritten
	f.Lines = strings.Split(string(data), "\n")
	if len(f.Lines) > 0 && f.Lines[len(f.Lines)-1] == "" {
		f.Lines = f.Lines[:len(f.Lines)-1]
	}

	logger.Logf("asmfile", "%s: %d lines", filename, len(f.Lines))

	return f, nil
}

// Commit replaces the content of the file with the supplied buffer. The
// buffer is written in a single operation.
func (f *File) Commit(buffer string) error {
	if err := os.WriteFile(f.Filename, []byte(buffer), f.mode); err != nil {
		return curated.Errorf("asmfile: %v", err)
	}

	logger.Logf("asmfile", "%s: %d bytes written", f.Filename, len(buffer))

	return nil
}
