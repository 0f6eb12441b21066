package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type KnowledgeChunk struct {
	Id        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Topic     string          `gorm:"type:varchar(64);index"`
	Question  string          `gorm:"type:text;not null"`
	Answer    string          `gorm:"type:text;not null"`
	Embedding pgvector.Vector `gorm:"type:vector(768)"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
	DeletedAt gorm.DeletedAt  `gorm:"index"`
}

func (KnowledgeChunk) TableName() string {
	return "knowledge_chunks"
}
