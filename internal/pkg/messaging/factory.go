package messaging

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DriverNSQ selects the NSQ backend.
	DriverNSQ = "nsq"
	// DriverNATS selects the NATS backend.
	DriverNATS = "nats"
	// DriverKafka selects the Kafka backend.
	DriverKafka = "kafka"
	// DriverMemory selects the in-process backend.
	DriverMemory = "memory"
)

// ErrUnknownDriver indicates an unsupported messaging driver.
var ErrUnknownDriver = errors.New("messaging: unknown driver")

// FactoryOptions groups config for supported messaging backends.
type FactoryOptions struct {
	NSQ   NSQConfig
	Kafka KafkaConfig
	NATS  NATSConfig
}

// NewFromDriver constructs a Messaging implementation by driver name.
func NewFromDriver(driver string, opts FactoryOptions) (Messaging, error) {
	var (
		m   Messaging
		err error
	)

	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverNSQ:
		m, err = NewNSQ(opts.NSQ)
	case DriverKafka:
		m, err = NewKafka(opts.Kafka)
	case DriverNATS:
		m, err = NewNATS(opts.NATS)
	case DriverMemory:
		m = NewMemory()
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
	if err != nil {
		return nil, err
	}

	return m, nil
}
