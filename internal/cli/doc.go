// Package cli is the bbmc command tree. It parses command-line arguments,
// translates flags into the application's configuration and maps failures to
// process exit codes.
package cli
