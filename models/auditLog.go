package models

import (
	"encoding/json"
	"time"

	"github.com/mmdatafocus/dailycash_backend/utils"
)

type AuditAction string

const (
	AuditActionCreate AuditAction = "CREATE"
	AuditActionUpdate AuditAction = "UPDATE"
	AuditActionDelete AuditAction = "DELETE"
)

// AuditLog is an append-only trail entry. Rows are never edited; they go
// only when their daily record is deleted.
type AuditLog struct {
	ID            int         `gorm:"primary_key" json:"id"`
	DailyRecordId int         `gorm:"index;not null" json:"daily_record_id"`
	Action        AuditAction `gorm:"size:10;not null" json:"action"`
	Changes       string      `gorm:"type:text" json:"changes"`
	UserName      string      `gorm:"size:100;not null" json:"user_name"`
	CreatedAt     time.Time   `gorm:"autoCreateTime" json:"created_at"`
}

func NewAuditLog(recordId int, action AuditAction, userName string, changes interface{}) (*AuditLog, error) {
	encoded, err := utils.MarshalToJSON(changes)
	if err != nil {
		return nil, err
	}
	return &AuditLog{
		DailyRecordId: recordId,
		Action:        action,
		Changes:       encoded,
		UserName:      userName,
	}, nil
}

// DecodeChanges unmarshals the stored payload into dest.
func (a *AuditLog) DecodeChanges(dest interface{}) error {
	if a.Changes == "" {
		return nil
	}
	return json.Unmarshal([]byte(a.Changes), dest)
}
