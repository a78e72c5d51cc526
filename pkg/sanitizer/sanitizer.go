// Package sanitizer normalizes free-text input before validation and storage.
// All helpers are pure and safe for concurrent use.
package sanitizer
