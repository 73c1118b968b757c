// Package publish sends analysis summaries to an MQTT broker.
//
// summary.go converts a pipeline.Result into the JSON Summary payload.
// publisher.go owns the broker connection: it connects lazily on the first
// Publish, retries the connect with truncated exponential backoff, and waits
// for broker acknowledgement according to the configured QoS.
package publish
