package model

// SchemaDocument is a resolved claim schema (ctype) as published by its
// author. Schema is a draft-07 JSON Schema constraining the claim contents.
type SchemaDocument struct {
	ID     string                 `json:"$id"`
	Title  string                 `json:"title"`
	Schema map[string]interface{} `json:"schema"`
}
