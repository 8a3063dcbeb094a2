// eventflow/models/setting.go

package models

import "gorm.io/gorm"

// Setting - пара ключ/значение для настроек мероприятия.
// Известный ключ: forumName - название, отображаемое на публичном экране.
type Setting struct {
	gorm.Model
	Key   string `json:"key" gorm:"uniqueIndex;not null"`
	Value string `json:"value"`
}

const SettingForumName = "forumName"

// DefaultForumName показывается, пока организаторы не задали своё название.
const DefaultForumName = "EventFlow"
