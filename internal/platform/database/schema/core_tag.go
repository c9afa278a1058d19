package schema

// CoreTagTable represents the 'core.tag' table
type CoreTagTable struct {
	Table           string
	ID              string
	Name            string
	Slug            string
	Namespace       string
	NameInNamespace string
	Category        string
	Description     string
	ImagesCount     string
	AliasedTagID    string
	CreatedAt       string
	UpdatedAt       string
}

// CoreTag is the schema definition for core.tag
var CoreTag = CoreTagTable{
	Table:           "core.tag",
	ID:              "id",
	Name:            "name",
	Slug:            "slug",
	Namespace:       "namespace",
	NameInNamespace: "nameinnamespace",
	Category:        "category",
	Description:     "description",
	ImagesCount:     "imagescount",
	AliasedTagID:    "aliasedtagid",
	CreatedAt:       "createdat",
	UpdatedAt:       "updatedat",
}

// Columns returns all standard column names
func (t CoreTagTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.Slug, t.Namespace, t.NameInNamespace, t.Category,
		t.Description, t.ImagesCount, t.AliasedTagID, t.CreatedAt, t.UpdatedAt,
	}
}
