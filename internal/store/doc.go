// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, allowing the progression rules to remain
// independent of specific database technologies or persistence details.
//
// Multi-step operations run through a Transactor, which hands the callback a
// Stores bundle bound to one transaction.
package store
