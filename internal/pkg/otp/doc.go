// Package otp generates short numeric one-time passcodes.
//
// Codes are drawn from crypto/rand and are uniform over the full range of the
// configured length, so a six digit code is any value from 000000 to 999999.
package otp
