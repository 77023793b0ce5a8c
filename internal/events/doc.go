// Package events provides the in-process event bus for learner progress.
//
// Services emit events after their transaction commits, without knowing
// which handlers will process them. Handlers include the background
// generation of questions for freshly unlocked lessons and audit logging.
//
// The primary components are:
// - Event: a typed, JSON-encoded notification
// - EventHandler: interface for components that can handle events
// - EventEmitter: interface for components that can emit events
package events
