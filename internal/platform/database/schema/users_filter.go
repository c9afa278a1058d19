package schema

// UserFilterTable represents the 'users.filter' table
type UserFilterTable struct {
	Table           string
	ID              string
	UserID          string
	Name            string
	HiddenTagIDs    string
	SpoileredTagIDs string
	CreatedAt       string
	UpdatedAt       string
}

// UserFilter is the schema definition for users.filter
var UserFilter = UserFilterTable{
	Table:           "users.filter",
	ID:              "id",
	UserID:          "userid",
	Name:            "name",
	HiddenTagIDs:    "hiddentagids",
	SpoileredTagIDs: "spoileredtagids",
	CreatedAt:       "createdat",
	UpdatedAt:       "updatedat",
}
