// Package cli provides the interactive label-scanning command-line client.
//
// The REPL follows the session machine: the current session state picks the
// screen, and each screen accepts its own commands. Typical flow: log in
// (email, phone or guest), set a 4-digit PIN, then capture label photos and
// browse the derived product labels.
//
// Screens and commands:
//   - login: login, signup, guest, phone
//   - verify code: code, back
//   - PIN setup: setpin
//   - PIN entry: pin, logout
//   - dashboard: capture <file>, labels, show <n>, alternatives, whoami, logout
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
