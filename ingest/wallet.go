package ingest

import (
	"context"
	"fmt"
	"log"

	"expensy/classify"
	"expensy/models"
	"expensy/parse"
)

// Wallet 通用钱包类站点的抓取流水线
// 不同钱包站点的行结构相近、选择器各异，因此选择器作为数据传入
type Wallet struct {
	URL    string
	Source string // 记录来源标签
	Year   int    // 行内日期缺少年份时的上下文年份，0 表示当前年

	Rows        string // 行选择器
	FieldDesc   string
	FieldDate   string // "<日>/<月缩写>" 形式
	FieldAmount string // "$ 1.234,56" 形式

	Reader     PageReader
	Store      Store
	Classifier *classify.Classifier
}

// Run 执行一轮抓取，语义与 Macro 流水线一致：
// 行内失败跳过该行，页面级失败终止；重复执行幂等
func (p *Wallet) Run(ctx context.Context) error {
	if err := p.Reader.Navigate(ctx, p.URL); err != nil {
		return fmt.Errorf("%s: 打开页面失败: %w", p.Source, err)
	}

	rows, err := p.Reader.FindRows(ctx, nil, p.Rows)
	if err != nil {
		return fmt.Errorf("%s: 读取记录列表失败: %w", p.Source, err)
	}

	for i, row := range rows {
		if err := p.ingestRow(ctx, row); err != nil {
			log.Printf("%s: 第 %d 行处理失败，跳过: %v", p.Source, i, err)
		}
	}
	return nil
}

func (p *Wallet) ingestRow(ctx context.Context, row Element) error {
	description, err := p.Reader.ReadField(ctx, row, p.FieldDesc)
	if err != nil {
		return fmt.Errorf("读取描述失败: %w", err)
	}

	categoryID := p.Classifier.Classify(description)
	if categoryID == classify.NoMatch {
		return nil
	}

	rawDate, err := p.Reader.ReadField(ctx, row, p.FieldDate)
	if err != nil {
		return fmt.Errorf("读取日期失败: %w", err)
	}
	date, err := parse.ParseDayMonth(rawDate, p.Year, 0)
	if err != nil {
		return err
	}

	rawAmount, err := p.Reader.ReadField(ctx, row, p.FieldAmount)
	if err != nil {
		return fmt.Errorf("读取金额失败: %w", err)
	}
	amountStr, amount, err := parse.NormalizeBankAmount(rawAmount)
	if err != nil {
		return err
	}

	id := RecordID(rawDate, description, amountStr)

	exists, err := p.Store.RecordExists(id)
	if err != nil {
		return fmt.Errorf("查重失败: %w", err)
	}
	if exists {
		return nil
	}

	category, err := p.Store.CategoryByID(categoryID)
	if err != nil {
		return fmt.Errorf("查类别失败: %w", err)
	}

	desc := fmt.Sprintf("%s. %s", description, rawDate)
	record := &models.Record{
		ID:          id,
		Description: &desc,
		Date:        &date,
		Amount:      amount,
		Source:      p.Source,
	}
	if category != nil {
		record.CategoryID = &category.ID
	}
	return p.Store.InsertRecord(record)
}
