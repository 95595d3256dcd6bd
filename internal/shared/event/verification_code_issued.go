package event

const VerificationCodeIssuedDestination string = "verification_code_issued"
const VerificationCodeIssuedConsumerMailer string = "verification_code_issued_mailer"

// VerificationCodeIssuedMessage asks a mailer to deliver a freshly issued code.
// EventID and CorrelationID travel in the body because not every broker
// carries headers.
type VerificationCodeIssuedMessage struct {
	EventID       string `json:"event_id"`
	CorrelationID string `json:"correlation_id,omitempty"`
	Email         string `json:"email"`
	Code          string `json:"code"`
	TTLSeconds    int64  `json:"ttl_seconds"`
}
