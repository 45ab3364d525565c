package database

import (
	"errors"

	"gorm.io/gorm"

	"expensy/models"
)

// Store 基于 gorm 的抓取流水线存储实现（ingest.Store）
type Store struct {
	db *gorm.DB
}

// NewStore 创建存储实现
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// CategoryByID 按 ID 查类别，未找到返回 nil
func (s *Store) CategoryByID(id uint) (*models.Category, error) {
	var cat models.Category
	if err := s.db.First(&cat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

// CategoryByName 按名称模糊匹配第一个类别，未找到返回 nil
func (s *Store) CategoryByName(name string) (*models.Category, error) {
	var cat models.Category
	if err := s.db.Where("name LIKE ?", "%"+name+"%").First(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

// RecordExists 判断记录 ID 是否已存在
func (s *Store) RecordExists(id string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.Record{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertRecord 插入一条新记录
func (s *Store) InsertRecord(r *models.Record) error {
	return s.db.Create(r).Error
}

// UnsyncedRecords 查询所有未同步的记录（含类别），供同步桥使用
func (s *Store) UnsyncedRecords() ([]models.Record, error) {
	var records []models.Record
	if err := s.db.Preload("Category").Where("sync = ?", false).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// MarkSynced 将指定 ID 的记录标记为已同步
// sync 标记只会从 false 变为 true，任何组件都不会回退它
func (s *Store) MarkSynced(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return s.db.Model(&models.Record{}).Where("id IN ?", ids).Update("sync", true).Error
}
