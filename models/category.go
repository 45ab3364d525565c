package models

// Category 记账类别模型
type Category struct {
	ID      uint    `json:"id" gorm:"primaryKey"`
	Name    string  `json:"name" gorm:"size:120;not null"`
	AltName *string `json:"alt_name" gorm:"size:120"`
	// 删除类别时级联删除其下所有记录（硬删除，不做软删除）
	Records []Record `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// TableName 设置表名
func (Category) TableName() string {
	return "categories"
}
