package service

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"expensy/models"
)

// SyncStore 同步桥需要的存储操作
type SyncStore interface {
	// UnsyncedRecords 查询所有未同步的记录（含类别）
	UnsyncedRecords() ([]models.Record, error)
	// MarkSynced 将指定 ID 的记录标记为已同步
	MarkSynced(ids []string) error
}

// SyncService 同步桥：把未同步记录批量写入表格，确认写入成功后再打同步标记
type SyncService struct {
	Store SyncStore
	Sink  SheetSink
}

// Run 执行一轮同步，返回本轮同步的记录数
// 写入是单次整批调用：落地失败时不标记任何记录（不存在半批已标记状态），
// 下一轮会把同一批记录重新写出
func (s *SyncService) Run(ctx context.Context) (int, error) {
	records, err := s.Store.UnsyncedRecords()
	if err != nil {
		return 0, fmt.Errorf("查询未同步记录失败: %w", err)
	}
	if len(records) == 0 {
		log.Println("没有待同步的记录")
		return 0, nil
	}

	rows := SerializeRecords(records)

	rangeStr, err := s.Sink.LastRowRange(ctx, len(rows))
	if err != nil {
		return 0, fmt.Errorf("预留写入区间失败: %w", err)
	}
	if err := s.Sink.Write(ctx, rangeStr, rows); err != nil {
		return 0, fmt.Errorf("写入失败，本轮不标记任何记录: %w", err)
	}

	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	if err := s.Store.MarkSynced(ids); err != nil {
		return 0, fmt.Errorf("标记同步状态失败: %w", err)
	}

	log.Printf("已同步 %d 条记录到 %s", len(ids), rangeStr)
	return len(ids), nil
}

// SerializeRecords 将记录序列化为固定 6 列的表格行：
// id, 描述, 日期(yyyy-mm-dd), 类别名, 金额文本, 来源；缺失值写空字符串
func SerializeRecords(records []models.Record) [][]interface{} {
	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		description := ""
		if r.Description != nil {
			description = *r.Description
		}
		date := ""
		if r.Date != nil {
			date = r.Date.Format("2006-01-02")
		}
		categoryName := ""
		if r.Category != nil {
			categoryName = r.Category.Name
		}
		amount := ""
		if r.Amount != 0 {
			amount = strconv.FormatFloat(r.Amount, 'f', 2, 64)
		}
		rows = append(rows, []interface{}{r.ID, description, date, categoryName, amount, r.Source})
	}
	return rows
}
