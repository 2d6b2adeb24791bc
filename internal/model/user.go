package model

type UserRole string

const (
	Student UserRole = "STUDENT"
	Teacher UserRole = "TEACHER"
)

type Gender string

const (
	Male   Gender = "MALE"
	Female Gender = "FEMALE"
	Other  Gender = "OTHER"
)

// swagger:model User
type User struct {
	UUIDBase
	Name     string   `gorm:"size:100;not null" json:"name"`
	Email    string   `gorm:"size:100;unique;not null" json:"email"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"type:enum('STUDENT','TEACHER');default:'STUDENT'" json:"role"`
	Gender   Gender   `gorm:"type:enum('MALE','FEMALE','OTHER');default:'OTHER'" json:"gender"`
}

func (User) TableName() string {
	return "users"
}
