package messaging

type consumeOptions struct {
	// group names the competing consumer set: an NSQ channel, a NATS queue
	// group or a Kafka consumer group.
	group string

	// concurrency is the number of handler goroutines.
	concurrency int
}

// ConsumeOption configures consumer behavior.
type ConsumeOption func(*consumeOptions)

func newConsumeOptions(opts ...ConsumeOption) consumeOptions {
	co := consumeOptions{concurrency: 1}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&co)
	}
	if co.concurrency < 1 {
		co.concurrency = 1
	}
	return co
}

// WithGroup sets the consumer group. Members of one group share the stream;
// each message reaches one member.
func WithGroup(group string) ConsumeOption {
	return func(o *consumeOptions) { o.group = group }
}

// WithConcurrency sets how many handler goroutines process messages in parallel.
func WithConcurrency(n int) ConsumeOption {
	return func(o *consumeOptions) { o.concurrency = n }
}
