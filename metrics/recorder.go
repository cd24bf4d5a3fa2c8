// Package metrics records operational counters for submissions, reviews,
// content edits and email deliveries.
// file: metrics/recorder.go
package metrics

// Recorder receives one call per business event. Implementations must be
// safe for concurrent use and must not block the caller on I/O failures.
type Recorder interface {
	SubmissionReceived(kind string)
	StatusChanged(kind, status string)
	EmailDelivery(status string)
	CollectionMutated(collection, op string)
}

// Nop discards every event.
type Nop struct{}

func (Nop) SubmissionReceived(string)        {}
func (Nop) StatusChanged(string, string)     {}
func (Nop) EmailDelivery(string)             {}
func (Nop) CollectionMutated(string, string) {}
