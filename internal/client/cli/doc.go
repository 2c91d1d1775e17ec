// Package cli provides the interactive docsmith command-line client.
//
// It is the presentation layer over the session store, the API gateway and
// the project service: a REPL that reads one command per line, checks the
// session before running commands that need a logged-in user, and prints
// backend errors as the backend's detail message or a generic fallback.
//
// Key features:
//   - Register / Login / Logout / Whoami
//   - Upload a ZIP archive or a GitHub repository for documentation
//   - Browse generated docs and projects (filters, details, health)
//   - Delete projects and download READMEs
//   - Summarize PDF, DOCX and TXT files
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
