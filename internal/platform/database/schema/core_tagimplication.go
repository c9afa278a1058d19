package schema

// TagImplicationTable represents the 'core.tagimplication' table
type TagImplicationTable struct {
	Table        string
	TagID        string
	ImpliedTagID string
}

// TagImplication is the schema definition for core.tagimplication
var TagImplication = TagImplicationTable{
	Table:        "core.tagimplication",
	TagID:        "tagid",
	ImpliedTagID: "impliedtagid",
}
