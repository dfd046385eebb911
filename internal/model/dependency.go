package model

import (
	"encoding/json"
	"fmt"
)

// DependencyStatusKind tags a DependencyStatus variant.
type DependencyStatusKind string

const (
	StatusToInstall DependencyStatusKind = "to_install"
	StatusToUpgrade DependencyStatusKind = "to_upgrade"
	StatusInstalled DependencyStatusKind = "installed"
	StatusMissing   DependencyStatusKind = "missing"
	StatusConflict  DependencyStatusKind = "conflict"
)

// statusPriority encodes the "worse is first" ordering from spec §3.5/§4.5:
// Conflict < Missing < ToInstall < ToUpgrade < Installed.
var statusPriority = map[DependencyStatusKind]int{
	StatusConflict:  0,
	StatusMissing:   1,
	StatusToInstall: 2,
	StatusToUpgrade: 3,
	StatusInstalled: 4,
}

// DependencyStatus is a tagged union describing the resolved state of a
// single dependency relative to the local system (spec §3.5).
type DependencyStatus struct {
	Kind DependencyStatusKind

	// ToUpgrade fields.
	Current  string
	Required string

	// Installed field.
	Version string

	// Conflict field.
	Reason string
}

// Priority returns the sort priority of the status; lower sorts first and
// is considered "worse" per spec §3.5.
func (s DependencyStatus) Priority() int {
	p, ok := statusPriority[s.Kind]
	if !ok {
		return len(statusPriority)
	}
	return p
}

// WorseThan reports whether s is worse (sorts earlier / lower priority
// number) than other.
func (s DependencyStatus) WorseThan(other DependencyStatus) bool {
	return s.Priority() < other.Priority()
}

// jsonDependencyStatus is the on-disk envelope for DependencyStatus,
// matching the "tagged variant with stable discriminant" requirement of
// spec §9.
type jsonDependencyStatus struct {
	Type     DependencyStatusKind `json:"type"`
	Current  string               `json:"current,omitempty"`
	Required string               `json:"required,omitempty"`
	Version  string               `json:"version,omitempty"`
	Reason   string               `json:"reason,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (s DependencyStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonDependencyStatus{
		Type:     s.Kind,
		Current:  s.Current,
		Required: s.Required,
		Version:  s.Version,
		Reason:   s.Reason,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *DependencyStatus) UnmarshalJSON(data []byte) error {
	var j jsonDependencyStatus
	if err := json.Unmarshal(data, &j); err != nil {
		return fmt.Errorf("model: unmarshal DependencyStatus: %w", err)
	}
	s.Kind = j.Type
	s.Current = j.Current
	s.Required = j.Required
	s.Version = j.Version
	s.Reason = j.Reason
	return nil
}

// ToInstall builds a ToInstall status.
func ToInstall() DependencyStatus { return DependencyStatus{Kind: StatusToInstall} }

// ToUpgrade builds a ToUpgrade status.
func ToUpgrade(current, required string) DependencyStatus {
	return DependencyStatus{Kind: StatusToUpgrade, Current: current, Required: required}
}

// Installed builds an Installed status.
func Installed(version string) DependencyStatus {
	return DependencyStatus{Kind: StatusInstalled, Version: version}
}

// Missing builds a Missing status.
func Missing() DependencyStatus { return DependencyStatus{Kind: StatusMissing} }

// Conflict builds a Conflict status.
func Conflict(reason string) DependencyStatus {
	return DependencyStatus{Kind: StatusConflict, Reason: reason}
}

// DependencyInfo describes one resolved dependency relative to a set of
// install-target packages (spec §3.5).
type DependencyInfo struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Status      DependencyStatus  `json:"status"`
	Source      Source            `json:"source"`
	RequiredBy  []string          `json:"required_by"`
	DependsOn   []string          `json:"depends_on,omitempty"`
	IsCore      bool              `json:"is_core"`
	IsSystem    bool              `json:"is_system"`
}

// RequiredBySet returns RequiredBy as a lookup set for membership tests.
func (d DependencyInfo) RequiredBySet() map[string]struct{} {
	set := make(map[string]struct{}, len(d.RequiredBy))
	for _, n := range d.RequiredBy {
		set[n] = struct{}{}
	}
	return set
}
