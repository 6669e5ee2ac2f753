package itsm

import (
	"strings"

	"itsm-bridge/internal/models"
)

// Rendering of provisioning inputs into the human-readable text blocks that
// go into ticket descriptions. All functions here are pure; absent input
// renders as an empty string, never as an error.

// FormatAccountAttributes renders every attribute of the account being
// created as one "name:\tvalues" line, with an administrative-status line
// appended when activation values are present.
func FormatAccountAttributes(account models.AccountSnapshot) []string {
	lines := make([]string, 0, len(account.Attributes)+1)
	for _, attr := range account.Attributes {
		lines = append(lines, attributeLine(attr.Name, joinedDistinctStringValues(attr.Values)))
	}

	if len(account.AdministrativeStatus) > 0 {
		lines = append(lines, attributeLine(
			Msg("operation.create.statusAttribute"),
			joinedDistinctStringValues(account.AdministrativeStatus)))
	}

	return lines
}

// FormatChanges renders a modify operation's change list, one change per
// line block, joined by newlines.
func FormatChanges(changes []models.Change) string {
	rendered := make([]string, 0, len(changes))
	for _, change := range changes {
		rendered = append(rendered, formatChange(change))
	}
	return strings.Join(rendered, "\n")
}

// formatChange renders a single change. Script and credential changes get a
// fixed label plus their own description; an attribute delta lists its
// non-empty value sets in add, delete, replace order.
func formatChange(change models.Change) string {
	switch c := change.(type) {
	case models.ScriptChange:
		return Msg("delta.executeScript") + " : " + c.Description
	case models.CredentialChange:
		return Msg("delta.changePassword") + " : " + c.Description
	case models.AttributeDelta:
		var b strings.Builder
		b.WriteString(c.Name)
		b.WriteString(" : \n")

		if c.IsEmpty() {
			b.WriteString("  " + Msg("delta.emptyValue"))
		} else {
			appendValueSet(&b, Msg("delta.addValues"), c.Add)
			appendValueSet(&b, Msg("delta.deleteValues"), c.Delete)
			appendValueSet(&b, Msg("delta.replaceValues"), c.Replace)
		}

		return b.String()
	default:
		return ""
	}
}

// appendValueSet writes one "  label [v1,v2]" line, skipping empty sets.
func appendValueSet(b *strings.Builder, label string, values []interface{}) {
	if len(values) == 0 {
		return
	}
	b.WriteString("  " + label + " [" + joinedDistinctStringValues(values) + "]")
	b.WriteString("\n")
}

// joinedDistinctStringValues unwraps each value to its string form and joins
// the distinct results with commas. Duplicates are collapsed, keeping first
// occurrence order.
func joinedDistinctStringValues(values []interface{}) string {
	seen := make(map[string]struct{}, len(values))
	distinct := make([]string, 0, len(values))
	for _, v := range values {
		s := models.StringValue(v)
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		distinct = append(distinct, s)
	}
	return strings.Join(distinct, ",")
}

func attributeLine(name, values string) string {
	return name + ":\t" + values
}
