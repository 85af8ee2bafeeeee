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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface.
//
// Curated errors are created with the Errorf() function. It looks like the
// Errorf() function from the fmt package but rather than formatting a message
// immediately it stores the pattern and the values. The pattern can later be
// used to identify the error, wherever it has ended up in an error chain.
//
//	e := curated.Errorf("rewrite: unrecognised escape sequence")
//
//	if curated.Is(e, "rewrite: unrecognised escape sequence") {
//		fmt.Println("true")
//	}
//
// The Has() function is like Is() but checks every link of the error chain,
// not just the outermost error.
//
//	f := curated.Errorf("romsquash: %v", e)
//
//	if curated.Has(f, "rewrite: unrecognised escape sequence") {
//		fmt.Println("true")
//	}
//
// In that example Is() would return false for error f, the pattern having
// been wrapped inside the pattern "romsquash: %v".
//
// IsAny() says whether the error is curated at all. An uncurated error is one
// that has arrived from outside the project (the os package say) without
// being wrapped; depending on context that can be treated as an unexpected
// error.
//
// The Error() function normalises the message chain by removing duplicate
// adjacent parts. This means functions can wrap errors freely without
// worrying about repeated message fragments when two layers happen to use the
// same pattern. Chains are considered to be parts separated by the sub-string
// ': ' as suggested on p239 of "The Go Programming Language" (Donovan,
// Kernighan).
//
// Sentinel patterns should be stored as const strings, suitably named and
// commented, next to the code that creates them.
package curated
