package schema

// CoreImageTable represents the 'core.image' table
type CoreImageTable struct {
	Table       string
	ID          string
	Description string
	CreatedAt   string
	UpdatedAt   string
}

// CoreImage is the schema definition for core.image
var CoreImage = CoreImageTable{
	Table:       "core.image",
	ID:          "id",
	Description: "description",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}
