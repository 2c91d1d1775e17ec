// Package services contains application services for the docsmith client.
// They sit between the CLI and the API gateway and keep the client-side view
// of server data consistent with what the backend confirmed.
package services
