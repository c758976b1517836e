// Package api defines the HTTP contract of the push notification server: paths,
// request and response bodies, and the server configuration shared by the
// server binary and its flags.
//
// The clients subpackage contains a Go client for the same contract.
package api
