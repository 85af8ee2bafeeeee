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

package romimage

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/manicmole/romsquash/curated"
	"github.com/manicmole/romsquash/logger"

	"github.com/marcinbor85/gohex"
)

// Image formats recognised by the Loader.
const (
	FormatBinary = "BIN"
	FormatHex    = "HEX"
)

// Loader is used to specify the ROM image that assembly is to be squashed
// against.
type Loader struct {
	// filename of ROM image to load
	Filename string

	// the format of the image file. one of the Format values above
	Format string

	// expected hash of the image file. empty string indicates that the hash
	// is unknown and need not be validated. after a load operation the value
	// will be the hash of the loaded file
	//
	// in the case of Intel HEX images the hash is of the original file, not
	// the flattened data
	Hash string

	// copy of the loaded (and in the case of Intel HEX, flattened) data.
	// subsequent calls to Load() will return a copy of this data
	Data []byte

	// lowest address of the data segments in an Intel HEX image. zero for
	// flat binary images
	HexOrigin uint32
}

// FileExtensions is the list of file extensions that are recognised by the
// romimage package.
var FileExtensions = [...]string{".BIN", ".ROM", ".IMG", ".RAW", ".HEX", ".IHX"}

// NewLoader is the preferred method of initialisation for the Loader type.
//
// The format of the image is decided by the file extension. Extensions ".hex"
// and ".ihx" select the Intel HEX format, anything else is treated as a flat
// binary. Alphabetic characters in file extensions can be in upper or lower
// case or a mixture of both.
func NewLoader(filename string) Loader {
	ld := Loader{
		Filename: filename,
		Format:   FormatBinary,
	}

	switch strings.ToUpper(path.Ext(filename)) {
	case ".HEX":
		fallthrough
	case ".IHX":
		ld.Format = FormatHex
	}

	return ld
}

// ShortName returns a shortened version of the Loader filename.
func (ld Loader) ShortName() string {
	sn := path.Base(ld.Filename)
	sn = strings.TrimSuffix(sn, path.Ext(ld.Filename))
	return sn
}

// HasLoaded returns true if Load() has been successfully called.
func (ld Loader) HasLoaded() bool {
	return len(ld.Data) > 0
}

// Load the ROM image data. Loader filenames with a valid scheme will use that
// method to load the data. Currently supported schemes are HTTP and local
// files.
func (ld *Loader) Load() error {
	if len(ld.Data) > 0 {
		return nil
	}

	scheme := "file"

	url, err := url.Parse(ld.Filename)
	if err == nil {
		scheme = url.Scheme
	}

	var data []byte

	switch scheme {
	case "http":
		fallthrough
	case "https":
		resp, err := http.Get(ld.Filename)
		if err != nil {
			return curated.Errorf("romimage: %v", err)
		}
		defer resp.Body.Close()

		data, err = io.ReadAll(resp.Body)
		if err != nil {
			return curated.Errorf("romimage: %v", err)
		}

	case "file":
		fallthrough

	case "":
		data, err = os.ReadFile(ld.Filename)
		if err != nil {
			return curated.Errorf("romimage: %v", err)
		}

	default:
		return curated.Errorf("romimage: %v", fmt.Sprintf("unsupported URL scheme (%s)", scheme))
	}

	// generate hash of the file as it is on disk (or on the wire)
	hash := fmt.Sprintf("%x", sha1.Sum(data))

	// check for hash consistency
	if ld.Hash != "" && ld.Hash != hash {
		return curated.Errorf("romimage: %v", "unexpected hash value")
	}

	ld.Hash = hash

	switch ld.Format {
	case FormatHex:
		ld.Data, ld.HexOrigin, err = flattenHex(data)
		if err != nil {
			return err
		}
		logger.Logf("romimage", "intel hex image flattened: origin %#x (%d bytes)", ld.HexOrigin, len(ld.Data))
	default:
		ld.Data = data
	}

	return nil
}

// flattenHex converts the data segments of an Intel HEX file into a single
// byte array, starting at the lowest segment address. Gaps between segments
// are filled with 0xff, the value of unprogrammed ROM.
func flattenHex(data []byte) ([]byte, uint32, error) {
	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(bytes.NewReader(data)); err != nil {
		return nil, 0, curated.Errorf("romimage: %v", err)
	}

	segs := mem.GetDataSegments()
	if len(segs) == 0 {
		return nil, 0, curated.Errorf("romimage: %v", "no data segments in intel hex image")
	}

	sort.Slice(segs, func(i, j int) bool {
		return segs[i].Address < segs[j].Address
	})

	origin := segs[0].Address
	end := origin
	for _, s := range segs {
		if e := s.Address + uint32(len(s.Data)); e > end {
			end = e
		}
	}

	flat := make([]byte, end-origin)
	for i := range flat {
		flat[i] = 0xff
	}
	for _, s := range segs {
		copy(flat[s.Address-origin:], s.Data)
	}

	return flat, origin, nil
}
