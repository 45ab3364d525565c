package models

import (
	"time"

	"github.com/google/uuid"
)

// Record 交易记录模型
// ID 为字符串主键（最长 40 字符）：手工录入时自动生成 UUID，
// 抓取来源使用内容哈希或外部操作号，保证重复抓取不产生重复记录
type Record struct {
	ID          string     `json:"id" gorm:"primaryKey;size:40"`
	Description *string    `json:"description" gorm:"size:350"`
	Date        *time.Time `json:"date" gorm:"type:date"`
	Time        *string    `json:"time" gorm:"type:time"` // 仅手工录入有意义
	CategoryID  *uint      `json:"category" gorm:"index"`
	Category    *Category  `json:"-" gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	Amount      float64    `json:"amount" gorm:"type:decimal(10,2);not null"`
	Sync        bool       `json:"sync" gorm:"not null;default:false"`
	Source      string     `json:"source" gorm:"size:50"`
}

// TableName 设置表名
func (Record) TableName() string {
	return "records"
}

// Source 记录来源常量
const (
	SourceManual      = "ingreso manual"
	SourceMercadoPago = "mercado pago"
	SourceMacro       = "macro"
)

// GetSources 获取所有内置记录来源
func GetSources() []string {
	return []string{
		SourceManual,
		SourceMercadoPago,
		SourceMacro,
	}
}

// NewRecordID 为手工录入的记录生成随机 ID
func NewRecordID() string {
	return uuid.NewString()
}
