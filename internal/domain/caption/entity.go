package caption

import "time"

// CaptionRecord persists the outcome of a successful generation request.
type CaptionRecord struct {
	ID            string    `gorm:"column:id;primaryKey" json:"id"`
	UploadID      string    `gorm:"column:upload_id" json:"upload_id"`
	Handle        string    `gorm:"column:handle" json:"handle"`
	ShortCaption  string    `gorm:"column:short_caption" json:"shortCaption"`
	MediumCaption string    `gorm:"column:medium_caption" json:"mediumCaption"`
	LongCaption   string    `gorm:"column:long_caption" json:"longCaption"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
}

func (CaptionRecord) TableName() string { return "caption_records" }
