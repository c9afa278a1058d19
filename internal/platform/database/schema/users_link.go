package schema

// UserLinkTable represents the 'users.link' table
type UserLinkTable struct {
	Table     string
	ID        string
	UserID    string
	TagID     string
	URI       string
	CreatedAt string
	UpdatedAt string
}

// UserLink is the schema definition for users.link
var UserLink = UserLinkTable{
	Table:     "users.link",
	ID:        "id",
	UserID:    "userid",
	TagID:     "tagid",
	URI:       "uri",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}
