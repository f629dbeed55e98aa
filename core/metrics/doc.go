// Package metrics defines the sinks that observe sizing runs. Sinks like
// PromSink and InfluxSink record finished searches and, when they implement
// IterationRecorder, each step of the search. Several sinks can be combined
// with NewMultiSink; the factory helpers return a MultiSink automatically
// when multiple sinks are configured.
package metrics
