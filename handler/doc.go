// Package handler holds the HTTP boundaries built on goSession: the login and
// logout form handlers of both areas and the user administration routes.
//
// Handlers never render pages. Every response is a redirect carrying a
// one-shot message, a JSON body, or an error from the configured
// middleware.ErrorHandler.
package handler
