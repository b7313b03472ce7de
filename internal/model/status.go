package model

import (
	"errors"
	"io/fs"
	"time"
)

// Status describes an artifact on disk without building its networks
type Status struct {
	Path           string    `json:"path"`
	Exists         bool      `json:"exists"`
	Loadable       bool      `json:"loadable"`
	Trained        bool      `json:"trained"`
	Version        int       `json:"version,omitempty"`
	GeneratedAt    time.Time `json:"generated_at,omitzero"`
	HasDeclaration bool      `json:"has_declaration"`
	HasCandidate   bool      `json:"has_candidate"`
	Threshold      float64   `json:"threshold,omitempty"`
	Error          string    `json:"error,omitempty"`
}

// Ready reports whether the artifact can serve declarations
func (s Status) Ready() bool {
	return s.Loadable && s.Trained && s.HasDeclaration
}

// StatusOf inspects the artifact at path
func StatusOf(path string) Status {
	st := Status{Path: path}
	a, err := Load(path)
	if err != nil {
		st.Exists = !errors.Is(err, fs.ErrNotExist)
		st.Error = err.Error()
		return st
	}
	st.Exists = true
	st.Loadable = true
	st.Trained = a.Trained
	st.Version = a.Version
	st.GeneratedAt = a.GeneratedAt
	st.HasDeclaration = a.Declaration != nil
	st.HasCandidate = a.Candidate != nil
	st.Threshold = a.ThresholdFor(0)
	return st
}
