// Package mail defines the contract for sending email messages and its
// drivers: net/smtp, gomail, and a log driver for local development.
package mail
