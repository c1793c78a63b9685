package models

import (
	"encoding/json"
	"fmt"
)

// StatusKind names the variant an item status holds
type StatusKind string

const (
	StatusPending    StatusKind = "pending"
	StatusGenerating StatusKind = "generating"
	StatusSuccess    StatusKind = "success"
	StatusFailed     StatusKind = "failed"
)

// Status is a tagged variant. Only the constructors below build one,
// so an item can never be generating and failed at the same time.
type Status struct {
	kind     StatusKind
	name     string
	keywords []string
	message  string
}

// Pending is the status of a freshly uploaded item
func Pending() Status {
	return Status{kind: StatusPending}
}

// Generating marks a request in flight
func Generating() Status {
	return Status{kind: StatusGenerating}
}

// Succeeded records the name and keywords produced by a request
func Succeeded(name string, keywords []string) Status {
	return Status{
		kind:     StatusSuccess,
		name:     name,
		keywords: append([]string(nil), keywords...),
	}
}

// Failed records a human-readable failure message
func Failed(message string) Status {
	return Status{kind: StatusFailed, message: message}
}

// Kind returns the variant tag. The zero Status reads as pending.
func (s Status) Kind() StatusKind {
	if s.kind == "" {
		return StatusPending
	}
	return s.kind
}

// Result returns the generated name and keywords of a Success status
func (s Status) Result() (string, []string, bool) {
	if s.kind != StatusSuccess {
		return "", nil, false
	}
	return s.name, append([]string(nil), s.keywords...), true
}

// Message returns the failure message of a Failed status
func (s Status) Message() (string, bool) {
	if s.kind != StatusFailed {
		return "", false
	}
	return s.message, true
}

func (s Status) String() string {
	switch s.Kind() {
	case StatusSuccess:
		return fmt.Sprintf("success(%s)", s.name)
	case StatusFailed:
		return fmt.Sprintf("failed(%s)", s.message)
	default:
		return string(s.Kind())
	}
}

type statusJSON struct {
	Kind     StatusKind `json:"kind"`
	Name     string     `json:"name,omitempty"`
	Keywords []string   `json:"keywords,omitempty"`
	Error    string     `json:"error,omitempty"`
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(statusJSON{
		Kind:     s.Kind(),
		Name:     s.name,
		Keywords: s.keywords,
		Error:    s.message,
	})
}
