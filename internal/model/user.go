package model

import "time"

// User is one Telegram identity the bot has ever seen. The platform-assigned
// ID is the primary key; there is no surrogate ID and no deletion path.
type User struct {
	TelegramID int64     `gorm:"column:telegram_id;primaryKey;autoIncrement:false" bson:"telegram_id"`
	FirstName  string    `gorm:"column:first_name" bson:"first_name"`
	LastName   string    `gorm:"column:last_name" bson:"last_name"`
	Username   string    `gorm:"column:username" bson:"username"`
	IsBot      bool      `gorm:"column:is_bot" bson:"is_bot"`
	CreatedAt  time.Time `gorm:"column:created_at" bson:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at" bson:"updated_at"`
}

// TableName keeps the SQL table name aligned with the Mongo collection.
func (User) TableName() string {
	return "telegram_users"
}
