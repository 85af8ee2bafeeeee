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

// Package paths contains functions to prepare paths to romsquash resources.
//
// The ResourcePath() function modifies the supplied resource strings such
// that they are prepended with the appropriate config directory. For example,
// the following returns the path to the regression database.
//
//	d, err := paths.ResourcePath("regression", "db")
//
// For development builds the base resource path is ".romsquash" in the
// current working directory. For builds made with the "release" build tag the
// user's config directory is used instead, as returned by os.UserConfigDir()
// in the go standard library. On a modern Linux system the path returned in
// the example would then be:
//
//	/home/user/.config/romsquash/regression/db
package paths
