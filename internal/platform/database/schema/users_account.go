package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table         string
	ID            string
	Username      string
	WatchedTagIDs string
	CreatedAt     string
	UpdatedAt     string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:         "users.account",
	ID:            "id",
	Username:      "username",
	WatchedTagIDs: "watchedtagids",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
}
