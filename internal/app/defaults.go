package app

// defaults are used for any key missing from both the config file and the
// environment, so the service starts with no config file at all.
var defaults = map[string]any{
	"app.name":                                    "mailotp",
	"app.env":                                     "development",
	"app.tz":                                      "UTC",
	"app.node_id":                                 -1,
	"app.maintenance.endpoints":                   []string{},
	"app.server.max_goroutine":                    64,
	"app.server.cors":                             []string{"*"},
	"app.server.trust_proxy_headers":              false,
	"app.server.http.host":                        "",
	"app.server.http.port":                        3000,
	"app.server.http.read_timeout_seconds":        10,
	"app.server.http.read_header_timeout_seconds": 5,
	"app.server.http.write_timeout_seconds":       30,
	"app.server.http.idle_timeout_seconds":        60,

	"instrument.enabled":                 false,
	"instrument.service_name":            "mailotp",
	"instrument.service_version":         "1.0.0",
	"instrument.env":                     "development",
	"instrument.otlp_endpoint":           "localhost:4317",
	"instrument.otlp_secure":             false,
	"instrument.trace_sample_ratio":      1.0,
	"instrument.metric_interval_seconds": 15,
	"instrument.log_mask_fields":         []string{"code", "password"},

	"database.url":                              "",
	"database.pool.max_conns":                   10,
	"database.pool.min_conns":                   1,
	"database.pool.max_conn_lifetime_seconds":   3600,
	"database.pool.max_conn_idle_seconds":       300,
	"database.pool.health_check_period_seconds": 30,

	"redis.url":    "",
	"redis.prefix": "mailotp:",

	"mail.driver":   "gomail",
	"mail.host":     "smtp.gmail.com",
	"mail.port":     465,
	"mail.username": "",
	"mail.password": "",
	"mail.from":     "",

	"messaging.driver":                       "",
	"messaging.nsq.producer_addr":            "localhost:4150",
	"messaging.nsq.consumer_nsqd_addrs":      []string{},
	"messaging.nsq.consumer_lookupd_addrs":   []string{"localhost:4161"},
	"messaging.kafka.brokers":                []string{"localhost:9092"},
	"messaging.kafka.dial_timeout_seconds":   10,
	"messaging.kafka.client_id":              "mailotp",
	"messaging.nats.url":                     "nats://localhost:4222",
	"messaging.nats.name":                    "mailotp",
	"messaging.nats.max_reconnects":          60,
	"messaging.nats.timeout_seconds":         2,
	"messaging.nats.reconnect_wait_seconds":  2,
	"messaging.nats.ping_interval_seconds":   120,
	"messaging.nats.max_pings_outstanding":   2,
	"messaging.nats.retry_on_failed_connect": true,

	"modules.emailverify.enabled":                  true,
	"modules.emailverify.otp_ttl_seconds":          300,
	"modules.emailverify.rate_window_seconds":      60,
	"modules.emailverify.rate_max_requests":        5,
	"modules.emailverify.code_length":              6,
	"modules.emailverify.sweep_interval_seconds":   60,
	"modules.emailverify.max_attempts":             5,
	"modules.emailverify.code_secret":              "",
	"modules.emailverify.store.driver":             "memory",
	"modules.emailverify.store.redis_prefix":       "emailverify:challenge",
	"modules.emailverify.limiter.driver":           "memory",
	"modules.emailverify.limiter.redis_prefix":     "emailverify:rl",
	"modules.emailverify.notifier.driver":          "mail",
	"modules.emailverify.notifier.brand":           "Email Verification",
	"modules.emailverify.notifier.timeout_seconds": 10,
	"modules.emailverify.notifier.max_per_second":  5,
	"modules.emailverify.notifier.burst":           10,
	"modules.emailverify.notifier.retry_max":       2,
	"modules.emailverify.consumer.enabled":         false,
	"modules.emailverify.consumer.concurrency":     4,
	"modules.emailverify.registry.enabled":         false,
}
