// Package ui renders human-readable console output.
//
// Reporter writes operator narration to standard output and diagnostics with an
// "Error:" prefix to standard error. ConsoleCommandEventLogger turns command
// lifecycle events into short log lines when the console log format is active.
package ui
