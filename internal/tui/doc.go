// Package tui is the plain ANSI display: frames are written to stdout as
// 256-colour escape sequences starting from the home position.
package tui
