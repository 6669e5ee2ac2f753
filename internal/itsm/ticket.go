package itsm

// Ticket is the attribute record submitted to the remote incident-management
// system for one provisioning request. It is owned by a single in-flight
// operation and must not be shared.
type Ticket struct {
	attributes map[string]string
}

// NewTicket creates a ticket seeded with the catalog defaults.
func NewTicket() *Ticket {
	t := &Ticket{attributes: make(map[string]string)}
	for _, attr := range defaulted {
		t.attributes[attr.Name] = attr.Default
	}
	return t
}

// Set adds an attribute value to the ticket, truncated to the attribute's
// maximum length. An empty value is ignored so catalog defaults survive.
func (t *Ticket) Set(attr Attribute, value string) {
	if value == "" {
		return
	}
	t.attributes[attr.Name] = attr.Truncate(value)
}

// Get returns the stored value for the attribute, or an empty string.
func (t *Ticket) Get(attr Attribute) string {
	return t.attributes[attr.Name]
}

// Attributes exposes the attribute map for the transport codec.
func (t *Ticket) Attributes() map[string]string {
	return t.attributes
}
