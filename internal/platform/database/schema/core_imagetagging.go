package schema

// ImageTaggingTable represents the 'core.imagetagging' table
type ImageTaggingTable struct {
	Table   string
	ImageID string
	TagID   string
}

// ImageTagging is the schema definition for core.imagetagging
var ImageTagging = ImageTaggingTable{
	Table:   "core.imagetagging",
	ImageID: "imageid",
	TagID:   "tagid",
}
