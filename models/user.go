package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mmdatafocus/dailycash_backend/config"
	"github.com/mmdatafocus/dailycash_backend/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrorInvalidCredentials = errors.New("invalid username or password")
	ErrorUserInactive       = errors.New("user is inactive")
)

// User is a shop operator account.
type User struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Username  string    `gorm:"size:100;not null;unique" json:"username"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Password  string    `gorm:"size:255;not null" json:"password"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginInfo struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expires_at"`
}

/*
caches:
	User:$username
	RevokedSession:$sessionId
*/

func (user User) RemoveInstanceRedis() error {
	return config.RemoveRedisKey("User:" + user.Username)
}

func (user *User) PrepareGive() {
	user.Password = ""
}

func revokedSessionKey(sessionId string) string {
	return "RevokedSession:" + sessionId
}

// Login checks the credentials and issues a signed session token.
func Login(ctx context.Context, input *LoginInput, now time.Time) (*LoginInfo, error) {
	input.Username = strings.TrimSpace(input.Username)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	user := User{}
	exists, err := config.GetRedisObject("User:"+input.Username, &user)
	if err != nil {
		config.LogError(config.GetLogger(), "user.go", "Login", "GetRedisObject", input.Username, err)
		exists = false
	}
	if !exists {
		db := config.GetDB()
		if err := db.WithContext(ctx).Where("username = ?", input.Username).Take(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrorInvalidCredentials
			}
			return nil, err
		}
		_ = config.SetRedisObject("User:"+user.Username, &user, time.Hour)
	}

	if err := utils.ComparePassword(user.Password, input.Password); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrorInvalidCredentials
		}
		return nil, err
	}
	if user.IsActive != nil && !*user.IsActive {
		return nil, ErrorUserInactive
	}

	session := utils.NewSession(user.Username, user.Name, now, config.SessionLifespan())
	token, err := utils.JwtGenerate(session)
	if err != nil {
		return nil, err
	}
	return &LoginInfo{
		Token:     token,
		Username:  user.Username,
		Name:      user.Name,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// Logout revokes the current session until its natural expiry.
func Logout(ctx context.Context, now time.Time) (bool, error) {
	session, ok := utils.GetSessionFromContext(ctx)
	if !ok {
		return false, utils.ErrorUnauthorized
	}
	ttl := session.TTL(now)
	if ttl <= 0 {
		return true, nil
	}
	if err := config.SetRedisValue(revokedSessionKey(session.ID), session.Username, ttl); err != nil {
		return false, err
	}
	return true, nil
}

// IsSessionRevoked is false when redis is not connected.
func IsSessionRevoked(sessionId string) (bool, error) {
	_, found, err := config.GetRedisValue(revokedSessionKey(sessionId))
	if err != nil {
		return false, err
	}
	return found, nil
}

// UpsertUser creates the operator or resets the name and password of an existing one.
func UpsertUser(ctx context.Context, db *gorm.DB, username string, name string, password string) (*User, bool, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, false, errors.New("username and password are required")
	}
	if strings.TrimSpace(name) == "" {
		name = username
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, false, err
	}

	var user User
	err = db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	created := errors.Is(err, gorm.ErrRecordNotFound)
	if created {
		user = User{Username: username, Name: name, Password: string(hashed), IsActive: utils.NewTrue()}
		if err := db.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, false, err
		}
	} else {
		err = db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
			"Name":     name,
			"Password": string(hashed),
			"IsActive": utils.NewTrue(),
		}).Error
		if err != nil {
			return nil, false, err
		}
	}
	if err := user.RemoveInstanceRedis(); err != nil {
		config.LogError(config.GetLogger(), "user.go", "UpsertUser", "RemoveInstanceRedis", username, err)
	}
	user.PrepareGive()
	return &user, created, nil
}
