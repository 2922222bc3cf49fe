package models

import "gorm.io/gorm"

// Passage is a daily reflection text, seeded from public domain
// philosophical works.
type Passage struct {
	gorm.Model
	Author     string
	Title      string
	Translator string
	Content    string `gorm:"type:text"`
}
