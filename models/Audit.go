package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog records an administrative mutation together with the state of the
// resource before and after the change.
type AuditLog struct {
	gorm.Model
	ActorID      uint           `json:"actorID" gorm:"index"`
	Action       string         `json:"action" gorm:"index"`
	ResourceType string         `json:"resourceType"`
	ResourceID   uint           `json:"resourceID"`
	Before       datatypes.JSON `json:"before"`
	After        datatypes.JSON `json:"after"`
	IP           string         `json:"ip"`
}
