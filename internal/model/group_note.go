package model

// GroupNote 每个 (class, group) 唯一一行，整体覆盖，最后写入者胜出
// swagger:model GroupNote
type GroupNote struct {
	UUIDBase
	ClassID     string `gorm:"uniqueIndex:idx_class_group_note;type:varchar(36);not null" json:"classId"`
	GroupNumber int    `gorm:"uniqueIndex:idx_class_group_note;not null" json:"groupNumber"`
	Content     string `gorm:"type:text" json:"content"`
	UpdatedByID string `gorm:"type:varchar(36)" json:"updatedById"`
}

func (GroupNote) TableName() string {
	return "group_notes"
}
