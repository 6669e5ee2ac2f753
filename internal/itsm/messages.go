package itsm

// messages holds the localized text fragments used in ticket descriptions.
// Keys mirror the integration's message table.
var messages = map[string]string{
	"operation.create":                 "create",
	"operation.modify":                 "modify",
	"operation.delete":                 "delete",
	"operation.create.statusAttribute": "administrative status",

	"delta.executeScript":  "execute script",
	"delta.changePassword": "change password",
	"delta.emptyValue":     "no value",
	"delta.addValues":      "add values",
	"delta.deleteValues":   "delete values",
	"delta.replaceValues":  "replace values",
}

// Msg returns the localized message for the key, or the key itself when the
// table has no entry.
func Msg(key string) string {
	if m, ok := messages[key]; ok {
		return m
	}
	return key
}
