package mail

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DriverSMTP selects net/smtp.
	DriverSMTP = "smtp"
	// DriverGomail selects gopkg.in/gomail.v2.
	DriverGomail = "gomail"
	// DriverLog selects the log driver.
	DriverLog = "log"
)

// ErrUnknownDriver indicates an unsupported mail driver.
var ErrUnknownDriver = errors.New("mail: unknown driver")

// FactoryOptions groups config for supported mail drivers.
type FactoryOptions struct {
	SMTP   SMTPConfig
	Gomail GomailConfig
	// From is the default sender of the log driver.
	From string
}

// NewFromDriver constructs a Mail implementation by driver name.
func NewFromDriver(driver string, opts FactoryOptions) (Mail, error) {
	var (
		m   Mail
		err error
	)

	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverSMTP:
		m, err = NewSMTP(opts.SMTP)
	case DriverGomail:
		m, err = NewGomail(opts.Gomail)
	case DriverLog:
		m = NewLog(opts.From)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
	if err != nil {
		return nil, err
	}

	return m, nil
}
