package role

// SchemaField describes a single Role attribute for client-side form and
// validation generation. The searchable and fake flags mirror the field
// metadata used by data generators and API documentation tooling.
type SchemaField struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Required   bool     `json:"required,omitempty"`
	Unique     bool     `json:"unique,omitempty"`
	Enum       []string `json:"enum,omitempty"`
	Default    string   `json:"default,omitempty"`
	Searchable bool     `json:"searchable,omitempty"`
	Fake       bool     `json:"fake,omitempty"`
	Ref        string   `json:"ref,omitempty"`
}

// Schema is the machine-readable structural description of the Role shape.
type Schema struct {
	Title  string        `json:"title"`
	Type   string        `json:"type"`
	Fields []SchemaField `json:"fields"`
}

// Schema derives the structural description from the entity definition and
// the configured type set. It never touches persistence.
func (s *RoleService) Schema() Schema {
	return Schema{
		Title: "Role",
		Type:  "object",
		Fields: []SchemaField{
			{
				Name:       "type",
				Type:       "string",
				Enum:       s.config.Types,
				Default:    s.config.DefaultType,
				Searchable: true,
				Fake:       true,
			},
			{
				Name:       "name",
				Type:       "string",
				Required:   true,
				Unique:     true,
				Searchable: true,
				Fake:       true,
			},
			{
				Name:       "description",
				Type:       "string",
				Searchable: true,
				Fake:       true,
			},
			{
				Name: "permissions",
				Type: "array",
				Ref:  "Permission",
			},
		},
	}
}
