// Package itsm holds the ticket vocabulary of the remote incident-management
// system: the attribute catalog, the ticket record, the status enumerations
// and the outcome reconciler.
package itsm

import "unicode/utf8"

// Attribute identifies one field of the remote incident schema. The catalog
// below is fixed per integration; names, length limits and defaults must be
// preserved exactly for interoperability with the remote schema.
type Attribute struct {
	Name      string
	MaxLength int // 0 means unbounded
	Default   string
}

var (
	AttrIncidentStatus      = Attribute{Name: "IncidentStatus"}
	AttrIncidentNumber      = Attribute{Name: "Incident_Number"}
	AttrDescription         = Attribute{Name: "Description", MaxLength: 100}
	AttrDetailedDescription = Attribute{Name: "Detailed_Description"} // no limit in the remote schema
	AttrCIName              = Attribute{Name: "CI_Name", MaxLength: 254}

	AttrPriority       = Attribute{Name: "Priority", Default: "3"}
	AttrIncidentType   = Attribute{Name: "Incident_Type", Default: "1"}
	AttrReportedSource = Attribute{Name: "Reported_Source", Default: "10000"}
	AttrServiceType    = Attribute{Name: "Service_Type", Default: "1"}
	AttrLastName       = Attribute{Name: "Last_Name", Default: "IDM"}
	AttrFirstName      = Attribute{Name: "First_Name", Default: "Integration"}
	AttrMessageID      = Attribute{Name: "Message_ID", Default: "CREATE"}
)

// defaulted lists the attributes that seed every new ticket with their
// default value, as given by the remote ticket schema.
var defaulted = []Attribute{
	AttrPriority,
	AttrIncidentType,
	AttrReportedSource,
	AttrServiceType,
	AttrLastName,
	AttrFirstName,
	AttrMessageID,
}

// Truncate trims value to the attribute's maximum length, counted in bytes
// but never splitting a UTF-8 character. The result is a prefix of the input;
// attributes without a limit return the value unchanged.
func (a Attribute) Truncate(value string) string {
	if a.MaxLength <= 0 || len(value) <= a.MaxLength {
		return value
	}

	cut := a.MaxLength
	for cut > 0 && !utf8.RuneStart(value[cut]) {
		cut--
	}
	return value[:cut]
}
