package model

type MaterialType string

const (
	MaterialPDF     MaterialType = "pdf"
	MaterialDocx    MaterialType = "docx"
	MaterialYoutube MaterialType = "youtube"
)

// swagger:model Material
type Material struct {
	UUIDBase
	ClassID string       `gorm:"index;type:varchar(36);not null" json:"classId"`
	Type    MaterialType `gorm:"type:enum('pdf','docx','youtube');not null" json:"type"`
	Title   string       `gorm:"size:255;not null" json:"title"`
	URL     string       `gorm:"size:512;not null" json:"url"`
}

func (Material) TableName() string {
	return "materials"
}
