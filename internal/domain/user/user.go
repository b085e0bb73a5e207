package user

import "time"

type User struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email     string    `gorm:"column:email;uniqueIndex;not null" json:"email"`
	FirstName *string   `gorm:"column:first_name" json:"firstName"`
	LastName  *string   `gorm:"column:last_name" json:"lastName"`
	ClerkID   *string   `gorm:"column:clerk_id;index" json:"clerkId"`
	ImageURL  *string   `gorm:"column:image_url" json:"imageUrl"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updatedAt"`
}

func (User) TableName() string { return "users" }
