// Package mocks provides shared test doubles.
//
// MemoryDB implements every store interface and store.Transactor in memory.
// Transactions are serialized and roll back on error, so service tests can
// exercise all-or-nothing behavior without Postgres. FailNext injects store
// errors by operation name:
//
//	db := mocks.NewMemoryDB()
//	db.FailNext("Progress.Update", store.ErrConflict, 1)
//
// MockLocker stands in for the Redis or advisory generation lock, and
// MockJWTService for token verification.
package mocks
