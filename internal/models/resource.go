// Package models contains domain models and entities.
package models

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// Resource is a stored record published under an opaque token. The token
// is derived from ID and is not stored.
type Resource struct {
	ID        int64     `json:"id"`
	Token     string    `json:"token"`
	Name      string    `json:"name"`
	Target    string    `json:"target"`
	CreatedAt time.Time `json:"created_at"`
}

// ResourceCreate holds the data needed to register a resource.
type ResourceCreate struct {
	Name   string
	Target string
}

// MaxNameLength bounds resource names.
const MaxNameLength = 200

// Validation errors
var (
	ErrEmptyName        = errors.New("name cannot be empty")
	ErrNameTooLong      = errors.New("name exceeds maximum length")
	ErrInvalidTarget    = errors.New("target must be an absolute http or https url")
	ErrResourceNotFound = errors.New("resource not found")
)

// Validate checks the create request. Name is required; Target is optional
// but must be an absolute http(s) URL when set.
func (c *ResourceCreate) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > MaxNameLength {
		return ErrNameTooLong
	}
	if c.Target != "" && !isValidURL(c.Target) {
		return ErrInvalidTarget
	}
	return nil
}

func isValidURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
