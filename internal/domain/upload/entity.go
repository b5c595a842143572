package upload

import "time"

// Upload records a photo persisted to the local upload directory. The stored
// filename is `<unix-ms>-<original-filename>` in a flat directory; the record
// itself is keyed by a uuid so two uploads landing on the same millisecond
// never collide in the database, even though their files still could.
type Upload struct {
	ID           string    `gorm:"column:id;primaryKey" json:"id"`
	Handle       string    `gorm:"column:handle" json:"handle"`
	OriginalName string    `gorm:"column:original_name" json:"original_name"`
	StoredName   string    `gorm:"column:stored_name" json:"stored_name"`
	Path         string    `gorm:"column:path" json:"-"`
	MimeType     string    `gorm:"column:mime_type" json:"mime_type"`
	Size         int64     `gorm:"column:size" json:"size"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Upload) TableName() string { return "uploads" }
