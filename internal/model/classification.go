// Package model defines the core domain models used throughout the application.
package model

import "strings"

// Classification is a single TN VED commodity code returned by the search endpoint.
type Classification struct {
	FullCode    string `json:"full_code,omitempty"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Level       int    `json:"level,omitempty"`
}

// HasDescription reports whether the backend supplied a non-blank description.
func (c Classification) HasDescription() bool {
	return strings.TrimSpace(c.Description) != ""
}
