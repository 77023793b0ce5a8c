// Package domain contains the core business entities, value objects, and
// domain logic of the learning engine. It models the course catalog (language
// pairs, units, lessons, vocabulary), the generated quiz questions, and the
// learner aggregates whose counters may only change through the progression
// operations defined here. It is independent of any storage or transport.
package domain
