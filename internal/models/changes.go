package models

// Change is one entry of a modify operation. It is a closed union over
// ScriptChange, CredentialChange and AttributeDelta.
type Change interface {
	isChange()
}

// ScriptChange requests execution of a provisioning script on the managed
// system.
type ScriptChange struct {
	Description string `json:"description"`
}

// CredentialChange requests a credential update. The credential value itself
// never appears in ticket text, only the description.
type CredentialChange struct {
	Description string `json:"description"`
}

// AttributeDelta describes value-level changes of a single account attribute.
// Any of the three value sets may be empty.
type AttributeDelta struct {
	Name    string        `json:"name"`
	Add     []interface{} `json:"add,omitempty"`
	Delete  []interface{} `json:"delete,omitempty"`
	Replace []interface{} `json:"replace,omitempty"`
}

func (ScriptChange) isChange()     {}
func (CredentialChange) isChange() {}
func (AttributeDelta) isChange()   {}

// IsEmpty reports whether all three value sets of the delta are empty.
func (d AttributeDelta) IsEmpty() bool {
	return len(d.Add) == 0 && len(d.Delete) == 0 && len(d.Replace) == 0
}
