package connector

import "itsm-bridge/internal/models"

// Test fixtures shared by the connector tests.

func accountSnapshot(accountType, name string) models.AccountSnapshot {
	return models.AccountSnapshot{
		Attributes: []models.AccountAttribute{
			{Name: "type", Values: []interface{}{accountType}},
			{Name: "name", Values: []interface{}{name}},
		},
	}
}

func identifiers(name string) []models.Identifier {
	return []models.Identifier{{Name: "name", Value: name}}
}

func trouserSizeChange(add, remove string) []models.Change {
	return []models.Change{
		models.AttributeDelta{
			Name:   "sizeOfTrousers",
			Add:    []interface{}{add},
			Delete: []interface{}{remove},
		},
	}
}
