package schema

// DnpEntryTable represents the 'core.dnpentry' table
type DnpEntryTable struct {
	Table     string
	ID        string
	TagID     string
	Reason    string
	CreatedAt string
	UpdatedAt string
}

// DnpEntry is the schema definition for core.dnpentry
var DnpEntry = DnpEntryTable{
	Table:     "core.dnpentry",
	ID:        "id",
	TagID:     "tagid",
	Reason:    "reason",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}
