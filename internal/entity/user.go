package entity

import "time"

const (
	UserRoleAdmin = "admin"
	UserRoleUser  = "user"
)

// DbUser represents a persisted user account.
type DbUser struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Email        string    `gorm:"column:email;type:varchar(150);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(150);not null" json:"-"`
}

// TableName overrides default pluralised name.
func (DbUser) TableName() string {
	return "users"
}

// DbUserRole assigns one role to a user.
type DbUserRole struct {
	ID     uint   `gorm:"primarykey" json:"id"`
	UserID uint   `gorm:"column:user_id;uniqueIndex;not null" json:"user_id"`
	Role   string `gorm:"column:role;type:varchar(20);not null" json:"role"`
}

// TableName 指定表名
func (DbUserRole) TableName() string {
	return "user_roles"
}

// DbSecurityQuestion stores the recovery question of a user.
// AnswerHash is the password digest of the trimmed, lower-cased answer.
type DbSecurityQuestion struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	UserID     uint   `gorm:"column:user_id;uniqueIndex;not null" json:"user_id"`
	Question   string `gorm:"column:question;type:varchar(150);not null" json:"question"`
	AnswerHash string `gorm:"column:answer_hash;type:varchar(150);not null" json:"-"`
}

// TableName 指定表名
func (DbSecurityQuestion) TableName() string {
	return "security_questions"
}

// UserWithRole is a user row joined with its role.
type UserWithRole struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// UserSummary is a lightweight user description returned to clients.
type UserSummary struct {
	ID    uint   `json:"user_id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UserQuery supports listing users with pagination.
type UserQuery struct {
	BaseParams
	Role    string `json:"role" form:"role" query:"role"`
	Keyword string `json:"keyword" form:"keyword" query:"keyword"`
}

type AuthLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthRegisterRequest struct {
	Email            string `json:"email" binding:"required,email,max=150"`
	Password         string `json:"password" binding:"required"`
	SecurityQuestion string `json:"security_question" binding:"required,max=150"`
	SecurityAnswer   string `json:"security_answer" binding:"required,max=150"`
}

// AuthResponse is returned after a successful login. The token itself
// travels in the jwt cookie.
type AuthResponse struct {
	UserSummary
	ExpiresAt time.Time `json:"expires_at"`
}

type SecurityQuestionRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type SecurityQuestionResponse struct {
	Question string `json:"question"`
}

type SecurityAnswerRequest struct {
	Email  string `json:"email" binding:"required,email"`
	Answer string `json:"answer" binding:"required"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Answer      string `json:"answer" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// MessageResponse carries a human readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

type UserListResponse struct {
	Users []UserWithRole `json:"users"`
	Meta  *Meta          `json:"meta"`
}
