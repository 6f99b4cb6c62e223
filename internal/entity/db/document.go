package db

import "time"

// Document 表示以整体为单位存取的一份序列化文档。
type Document struct {
	Key       string    `gorm:"column:doc_key;primaryKey;size:191" json:"key"`
	Body      string    `gorm:"column:body;not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名。
func (Document) TableName() string {
	return "user_documents"
}
