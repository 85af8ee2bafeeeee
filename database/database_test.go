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

package database_test

import (
	"path/filepath"
	"testing"

	"github.com/manicmole/romsquash/curated"
	"github.com/manicmole/romsquash/database"
	"github.com/manicmole/romsquash/test"
)

const testEntryID = "test"

type testEntry struct {
	label string
}

func deserialiseTestEntry(fields database.SerialisedEntry) (database.Entry, error) {
	if len(fields) != 1 {
		return nil, curated.Errorf("test entry: wrong number of fields")
	}
	return &testEntry{label: fields[0]}, nil
}

func (ent testEntry) ID() string {
	return testEntryID
}

func (ent testEntry) String() string {
	return ent.label
}

func (ent testEntry) Serialise() (database.SerialisedEntry, error) {
	return database.SerialisedEntry{ent.label}, nil
}

func (ent testEntry) CleanUp() error {
	return nil
}

func initTestSession(db *database.Session) error {
	return db.RegisterEntryType(testEntryID, deserialiseTestEntry)
}

func TestSessionRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "db")

	db, err := database.StartSession(dbPath, database.ActivityCreating, initTestSession)
	test.ExpectedSuccess(t, err)
	test.ExpectedSuccess(t, db.Add(&testEntry{label: "first"}))
	test.ExpectedSuccess(t, db.Add(&testEntry{label: "second"}))
	test.ExpectedSuccess(t, db.EndSession(true))

	// reopen read-only and check both entries survived the round trip
	db, err = database.StartSession(dbPath, database.ActivityReading, initTestSession)
	test.ExpectedSuccess(t, err)
	test.Equate(t, db.NumEntries(), 2)

	output := &test.Writer{}
	test.ExpectedSuccess(t, db.List(output))
	if !output.Compare("000 first\n001 second\nTotal: 2\n") {
		t.Errorf("unexpected list output: %s", output.String())
	}

	// entries are visited in key order
	visited := []string{}
	_, err = db.SelectAll(func(ent database.Entry) error {
		visited = append(visited, ent.String())
		return nil
	})
	test.ExpectedSuccess(t, err)
	test.Equate(t, len(visited), 2)
	test.Equate(t, visited[0], "first")
	test.Equate(t, visited[1], "second")

	test.ExpectedSuccess(t, db.EndSession(false))
}

func TestSessionDelete(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "db")

	db, err := database.StartSession(dbPath, database.ActivityCreating, initTestSession)
	test.ExpectedSuccess(t, err)
	test.ExpectedSuccess(t, db.Add(&testEntry{label: "first"}))
	test.ExpectedSuccess(t, db.Add(&testEntry{label: "second"}))
	test.ExpectedSuccess(t, db.EndSession(true))

	db, err = database.StartSession(dbPath, database.ActivityModifying, initTestSession)
	test.ExpectedSuccess(t, err)
	test.ExpectedSuccess(t, db.Delete(0))
	test.ExpectedFailure(t, db.Delete(99))
	test.ExpectedSuccess(t, db.EndSession(true))

	// deleted entries do not reappear and the surviving entry keeps its key
	db, err = database.StartSession(dbPath, database.ActivityReading, initTestSession)
	test.ExpectedSuccess(t, err)
	test.Equate(t, db.NumEntries(), 1)

	ent, err := db.SelectKeys(nil, 1)
	test.ExpectedSuccess(t, err)
	test.Equate(t, ent.String(), "second")

	test.ExpectedSuccess(t, db.EndSession(false))
}

func TestReadOnlySession(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "db")

	db, err := database.StartSession(dbPath, database.ActivityCreating, initTestSession)
	test.ExpectedSuccess(t, err)
	test.ExpectedSuccess(t, db.EndSession(true))

	// a read-only session cannot commit changes
	db, err = database.StartSession(dbPath, database.ActivityReading, initTestSession)
	test.ExpectedSuccess(t, err)
	test.ExpectedFailure(t, db.EndSession(true))
}
