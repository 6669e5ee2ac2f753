package connector

import (
	"context"
	"sort"
	"strings"

	"itsm-bridge/internal/common/errors"
	"itsm-bridge/internal/common/metrics"
	"itsm-bridge/internal/itsm"
	"itsm-bridge/internal/itsm/ws"
	"itsm-bridge/internal/models"
	"itsm-bridge/internal/template"
)

// CreateTicketForAdd opens a ticket requesting manual creation of the
// account. The detail text lists every attribute being set. Returns the
// remote-assigned ticket identifier and the reconciled outcome.
func (c *Connector) CreateTicketForAdd(ctx context.Context, account models.AccountSnapshot) (string, itsm.Outcome, error) {
	tc := c.operationContext(itsm.Msg("operation.create"))
	tc.AccountChanges = strings.Join(itsm.FormatAccountAttributes(account), "\n")

	return c.sendTicket(ctx, "create", tc)
}

// CreateTicketForModify opens a ticket requesting manual modification of
// the account identified by the compound key.
func (c *Connector) CreateTicketForModify(ctx context.Context, identifiers []models.Identifier, changes []models.Change) (string, itsm.Outcome, error) {
	tc := c.operationContext(itsm.Msg("operation.modify"))
	tc.Identifier = models.CompoundIdentifier(identifiers)
	tc.AccountChanges = itsm.FormatChanges(changes)

	return c.sendTicket(ctx, "modify", tc)
}

// CreateTicketForDelete opens a ticket requesting manual removal of the
// account identified by the compound key.
func (c *Connector) CreateTicketForDelete(ctx context.Context, identifiers []models.Identifier) (string, itsm.Outcome, error) {
	tc := c.operationContext(itsm.Msg("operation.delete"))
	tc.AccountChanges = models.CompoundIdentifier(identifiers)

	return c.sendTicket(ctx, "delete", tc)
}

// operationContext seeds the template context for one provisioning
// operation. Absent fields stay empty strings.
func (c *Connector) operationContext(operation string) template.Context {
	return template.Context{
		Operation: operation,
		CIName:    c.config.Ticket.CIName,
	}
}

// buildTicket assembles the attribute record: catalog defaults first, then
// the rendered texts and per-integration settings on top. Never fails on
// missing optional data.
func (c *Connector) buildTicket(tc template.Context) (*itsm.Ticket, error) {
	description, err := c.render(template.DescriptionTemplateID, tc)
	if err != nil {
		return nil, err
	}
	detail, err := c.render(template.DetailTemplateID, tc)
	if err != nil {
		return nil, err
	}

	ticket := itsm.NewTicket()
	ticket.Set(itsm.AttrDescription, description)
	ticket.Set(itsm.AttrDetailedDescription, detail)
	ticket.Set(itsm.AttrCIName, c.config.Ticket.CIName)
	ticket.Set(itsm.AttrPriority, c.config.Ticket.Priority)
	return ticket, nil
}

func (c *Connector) render(templateID string, tc template.Context) (string, error) {
	c.mu.Lock()
	renderer := c.renderer
	c.mu.Unlock()

	if renderer == nil {
		return "", errors.NewConfigurationError("connector is not connected")
	}

	text, err := renderer.Render(templateID, tc)
	if err != nil {
		return "", errors.NewTemplateRenderError(templateID, err)
	}
	return text, nil
}

// sendTicket submits the create request and reconciles the response. Every
// successfully created ticket returns its external identifier, even if its
// lifecycle later turns out fatal.
func (c *Connector) sendTicket(ctx context.Context, operation string, tc template.Context) (string, itsm.Outcome, error) {
	ticket, err := c.buildTicket(tc)
	if err != nil {
		metrics.TicketsFailed.WithLabelValues(operation, errorCode(err)).Inc()
		return "", itsm.Reconcile(itsm.TransportAbsent, itsm.StatusAbsent), err
	}

	input := &ws.OperationInput{
		MessageType: ws.MessageTypeCreate,
		ProfileName: c.config.Ticket.ProfileName,
		Attributes:  wireAttributes(ticket),
	}

	output, err := c.call(ctx, input)
	if err != nil {
		metrics.TicketsFailed.WithLabelValues(operation, errorCode(err)).Inc()
		return "", itsm.Reconcile(itsm.TransportAbsent, itsm.StatusAbsent), err
	}

	result := itsm.ParseTransportResult(output.Status)
	if result == itsm.TransportError || result == itsm.TransportAbsent {
		c.recordResultOnError(result, output, operation)
		metrics.TicketsFailed.WithLabelValues(operation, string(errors.ErrCodeRemoteOperationError)).Inc()
		return "", itsm.Reconcile(result, itsm.StatusAbsent), errors.NewRemoteOperationError(output.Message)
	}

	// Creation responses never carry a business status. Reconcile with
	// IN_PROGRESS: the ticket exists and is being worked, and an absent
	// status must not read as UNKNOWN here.
	outcome := itsm.Reconcile(result, itsm.StatusInProgress)
	c.recordResultOnSuccess(result, itsm.StatusInProgress, operation)
	metrics.TicketsSubmitted.WithLabelValues(operation).Inc()

	ticketID := output.Attribute(itsm.AttrIncidentNumber.Name)
	c.log.Info("Ticket created", map[string]interface{}{
		"operation": operation,
		"ticketId":  ticketID,
		"outcome":   outcome.String(),
	})
	return ticketID, outcome, nil
}

// wireAttributes maps the ticket's attribute record onto the request
// attribute list, sorted by name for deterministic payloads.
func wireAttributes(ticket *itsm.Ticket) []ws.Attribute {
	attrs := ticket.Attributes()
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]ws.Attribute, 0, len(names))
	for _, name := range names {
		out = append(out, ws.Attribute{Name: name, Value: attrs[name]})
	}
	return out
}

func errorCode(err error) string {
	if se, ok := errors.AsStandardError(err); ok {
		return string(se.Code)
	}
	return "UNKNOWN"
}
