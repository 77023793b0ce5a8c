// Package testdb provides utilities for database integration tests.
//
// Each test runs in its own transaction, which is rolled back when the test
// completes, so tests can use t.Parallel() without interfering with each
// other's data. Tests are skipped unless DATABASE_URL (or LINGO_TEST_DB_URL)
// points at a Postgres instance; the embedded migrations are applied once per
// test binary.
//
// Basic usage:
//
//	func TestMyFeature(t *testing.T) {
//	    t.Parallel()
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sqlx.Tx) {
//	        course := testdb.SeedCourse(t, tx, testdb.CourseSpec{Units: 1, LessonsPerUnit: 3})
//	        ...
//	    })
//	}
package testdb
