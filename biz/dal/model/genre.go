package model

// Genre is one entry of the fixed genre catalogue, seeded at startup.
type Genre struct {
	ID   uint   `gorm:"primaryKey" json:"id,omitempty"`
	Name string `gorm:"column:name;uniqueIndex:idx_genre_name;size:64" json:"name,omitempty"`
}

// TableName overrides gorm to use the genre table.
func (Genre) TableName() string {
	return "genre"
}
