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

// Package romimage loads ROM images and indexes the strings stored in them.
//
// The Loader type reads a ROM image from the local filesystem or from an
// http/https URL. Flat binary images are used as they are. Images with a .hex
// or .ihx extension are treated as Intel HEX and flattened into a single byte
// array before use. The SHA1 hash of the image file is recorded on load and
// can be checked against an expected value, allowing a build to pin the exact
// ROM image it post-processes against.
//
// The StringTable type indexes every NUL-terminated byte string in the image.
// The image is split at every NUL and each string (terminator included) is
// recorded against its absolute address, the image base address plus the
// offset of the string's first byte. When the same byte string is stored more
// than once the address of the last occurrence wins. Bytes after the final
// NUL are not indexed.
//
// Lookup() finds strings by exact byte equality. LookupSuffix() finds strings
// stored as the tail of a longer string, returning the address adjusted by
// the length difference. A NUL-terminated string is always the suffix of any
// string it is embedded at the end of, which is what makes the adjustment
// valid.
package romimage
