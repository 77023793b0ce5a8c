// Package service contains the application use cases. It orchestrates domain
// objects and the store interfaces from internal/store to complete lessons,
// grade answers, enroll learners and generate questions.
//
// Multi-step operations run through store.Transactor so they commit or roll
// back as a unit. Lesson completion retries the whole transaction when the
// store reports store.ErrConflict. Failures come back as *ServiceError,
// which keeps the store and domain sentinels reachable through errors.Is for
// the API layer's status mapping.
package service
