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

// Package regression facilitates the regression testing of the rewriter. By
// adding test results to a database, the tests can be rerun automatically
// and checked for consistency.
//
// A regression test names a base address, a ROM image and an assembly file.
// Adding the test runs the rewriter over the assembly file and records a
// digest of the rewritten buffer. Running the test repeats the rewrite and
// compares digests. The rewrite happens in memory only; regression runs
// never change the assembly file on disk.
//
// The tests are most useful when run before a release, against a corpus of
// assembly files that have shown up bugs in the past.
package regression
