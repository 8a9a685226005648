// Package textutil provides small string helpers shared by the report and CLI.
//
// SanitizeToken turns a label into a lowercase filesystem-safe token, used for
// chart file names. Ternary picks between two values inline.
package textutil
