// Package server holds the HTTP server configuration.
//
// While the start command handles the server startup, this package defines the
// listening port, the API key and the request limits applied to uploaded datasets.
package server
