// Package messaging provides a broker-agnostic API for publishing and
// consuming messages.
//
// Business code depends on the Messaging interface only, so NSQ, NATS and
// Kafka can be swapped by configuration. The in-process Memory broker serves
// local development and tests.
package messaging
