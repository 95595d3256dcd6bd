package main

import (
	"context"
	"time"

	"github.com/shandysiswandi/mailotp/internal/app"
)

// @title           Mail OTP API
// @version         1.0
// @description     Mail OTP verifies ownership of an email address with a short-lived one-time code.
// @contact.name    Contact Support
// @contact.email   support@mailotp.dev
// @license.name    MIT
// @license.url     https://mit-license.org/
// @server          http://localhost:3000
func main() {
	application := app.New()    // Initialize the application
	wait := application.Start() // Start the application and wait for the termination signal
	<-wait                      // Wait for the application to receive a termination signal
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	application.Stop(ctx) // Stop the application gracefully
}
