package models

import (
	"fmt"
	"strings"
)

// PolyString carries a string value in its original and normalized form.
// Only the original form is shown in ticket text.
type PolyString struct {
	Orig string `json:"orig"`
	Norm string `json:"norm,omitempty"`
}

func (p PolyString) String() string {
	return p.Orig
}

// AccountAttribute is one attribute of a provisioned account, possibly
// multi-valued.
type AccountAttribute struct {
	Name   string        `json:"name"`
	Values []interface{} `json:"values"`
}

// AccountSnapshot describes the account to be created by the operator.
type AccountSnapshot struct {
	Attributes []AccountAttribute `json:"attributes"`

	// AdministrativeStatus holds the activation values, when present.
	AdministrativeStatus []interface{} `json:"administrativeStatus,omitempty"`
}

// Identifier is one component of the compound key of an existing account.
type Identifier struct {
	Name  string      `json:"name"`
	Value interface{} `json:"value"`
}

// StringValue unwraps a structured value to its underlying string
// representation.
func StringValue(value interface{}) string {
	if s, ok := value.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(value)
}

// CompoundIdentifier joins the identifier values into the single key string
// used in ticket text. An empty identifier list yields an empty string.
func CompoundIdentifier(identifiers []Identifier) string {
	parts := make([]string, 0, len(identifiers))
	for _, id := range identifiers {
		parts = append(parts, StringValue(id.Value))
	}
	return strings.Join(parts, ",")
}
