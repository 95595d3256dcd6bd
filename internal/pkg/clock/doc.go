// Package clock abstracts the current time.
//
// Expiry and rate windows read time through Clocker so tests can move time
// forward with Mock instead of sleeping.
package clock
