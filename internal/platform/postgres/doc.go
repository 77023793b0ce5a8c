// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package: the read-only
// course catalog, learner enrollments and lesson progress, generated
// questions and the answer log. It also owns the embedded goose migrations
// and the advisory-lock fallback for generation locking.
package postgres
