package models

// Word 词库条目，附带两条提示
type Word struct {
	BaseModel
	Word  string `gorm:"uniqueIndex;size:20;not null" json:"word"`
	Hint1 string `gorm:"size:255;not null" json:"hint1"`
	Hint2 string `gorm:"size:255;not null" json:"hint2"`
}

// TableName 表名
func (Word) TableName() string {
	return "words"
}

// Hints returns the hints in the order they are revealed.
func (w *Word) Hints() []string {
	return []string{w.Hint1, w.Hint2}
}
