package ingest

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"expensy/models"
	"expensy/parse"
)

// Mercado Pago 消费页选择器
const (
	mpLabelDate   = "//div[@class='navigator__date']"
	mpCategories  = "//ul[@aria-label='Listado de categorías organizadas del mayor al menor gasto.']//li"
	mpCatName     = ".//span[contains(@class, 'andes-list__item-primary')]"
	mpDetailRows  = "//div[@class='detail-row-wrapper']"
	mpRowTitle    = ".//span[@class='ui-rowfeed-title']"
	mpRowAction   = ".//p[@class='ui-rowfeed-description__text']"
	mpRowAmount   = ".//span[contains(@class, 'ui-rowfeed-amount')]"
	mpRowDate     = ".//p[@class='ui-rowfeed-date']"
	mpOpNumber    = "//span[@class='c-copy-operation__text c-copy-operation__text--initial']"
	opNumberLabel = "Número de operación"
)

// MercadoPago 支付平台消费抓取流水线
// 记录 ID 直接使用平台分配的操作号，与内容哈希同样保证重复抓取幂等
type MercadoPago struct {
	URL    string
	Reader PageReader
	Store  Store
}

// Run 执行一轮抓取：读取页面月份上下文，逐类别展开，逐行解析入库
func (p *MercadoPago) Run(ctx context.Context) error {
	if err := p.Reader.Navigate(ctx, p.URL); err != nil {
		return fmt.Errorf("mercado pago: 打开页面失败: %w", err)
	}

	// 页头的月份标签是行内日期的年/月上下文
	label, err := p.Reader.ReadField(ctx, nil, mpLabelDate)
	if err != nil {
		return fmt.Errorf("mercado pago: 读取月份标签失败: %w", err)
	}
	monthDate, err := parse.ParseMonthYear(label)
	if err != nil {
		return fmt.Errorf("mercado pago: 解析月份标签失败: %w", err)
	}

	categories, err := p.Reader.FindRows(ctx, nil, mpCategories)
	if err != nil {
		return fmt.Errorf("mercado pago: 读取类别列表失败: %w", err)
	}
	total := len(categories)

	for i := 0; i < total; i++ {
		if err := p.ingestCategory(ctx, i, monthDate); err != nil {
			return fmt.Errorf("mercado pago: 类别 %d 处理失败: %w", i, err)
		}
	}
	return nil
}

// ingestCategory 展开第 i 个类别并处理其下所有消费行
// 每次重新导航，避免前一个类别展开后的页面状态残留
func (p *MercadoPago) ingestCategory(ctx context.Context, index int, monthDate time.Time) error {
	if err := p.Reader.Navigate(ctx, p.URL); err != nil {
		return fmt.Errorf("打开页面失败: %w", err)
	}
	categories, err := p.Reader.FindRows(ctx, nil, mpCategories)
	if err != nil {
		return fmt.Errorf("读取类别列表失败: %w", err)
	}
	if index >= len(categories) {
		return fmt.Errorf("类别列表长度变化: %d >= %d", index, len(categories))
	}
	category := categories[index]

	categoryName, err := p.Reader.ReadField(ctx, category, mpCatName)
	if err != nil {
		return fmt.Errorf("读取类别名失败: %w", err)
	}
	if err := p.Reader.Click(ctx, category); err != nil {
		return fmt.Errorf("展开类别失败: %w", err)
	}

	rows, err := p.Reader.FindRows(ctx, nil, mpDetailRows)
	if err != nil {
		return fmt.Errorf("读取消费列表失败: %w", err)
	}

	for j := 0; j < len(rows); j++ {
		if err := p.ingestRow(ctx, rows[j], categoryName, monthDate); err != nil {
			log.Printf("mercado pago: 类别 %q 第 %d 行处理失败，跳过: %v", categoryName, j, err)
		}
		// 打开详情返回后列表会重建，重新获取句柄
		rows, err = p.Reader.FindRows(ctx, nil, mpDetailRows)
		if err != nil {
			return fmt.Errorf("刷新消费列表失败: %w", err)
		}
	}
	return nil
}

// ingestRow 处理单条消费：解析字段、打开详情取操作号、查重入库
func (p *MercadoPago) ingestRow(ctx context.Context, row Element, categoryName string, monthDate time.Time) error {
	title, err := p.Reader.ReadField(ctx, row, mpRowTitle)
	if err != nil {
		return fmt.Errorf("读取标题失败: %w", err)
	}
	action, err := p.Reader.ReadField(ctx, row, mpRowAction)
	if err != nil {
		return fmt.Errorf("读取描述失败: %w", err)
	}

	rawAmount, err := p.Reader.ReadField(ctx, row, mpRowAmount)
	if err != nil {
		return fmt.Errorf("读取金额失败: %w", err)
	}
	amount, err := parse.ParseAmount(rawAmount)
	if err != nil {
		return err
	}

	rawDate, err := p.Reader.ReadField(ctx, row, mpRowDate)
	if err != nil {
		return fmt.Errorf("读取日期失败: %w", err)
	}
	// 行内日期只有“日/月缩写”，年与月取页头上下文；缩写在此站点不可靠，月份直接覆盖
	date, err := parse.ParseDayMonth(rawDate, monthDate.Year(), monthDate.Month())
	if err != nil {
		return err
	}

	// 打开详情读取平台操作号，读完返回列表页
	if err := p.Reader.Click(ctx, row); err != nil {
		return fmt.Errorf("打开详情失败: %w", err)
	}
	opLabel, err := p.Reader.ReadField(ctx, nil, mpOpNumber)
	if err != nil {
		p.back(ctx)
		return fmt.Errorf("读取操作号失败: %w", err)
	}
	if err := p.Reader.Back(ctx); err != nil {
		return fmt.Errorf("返回列表页失败: %w", err)
	}

	fields := strings.Fields(strings.TrimSpace(strings.ReplaceAll(opLabel, opNumberLabel, "")))
	if len(fields) == 0 {
		return fmt.Errorf("操作号为空: %q", opLabel)
	}
	id := fields[len(fields)-1]

	exists, err := p.Store.RecordExists(id)
	if err != nil {
		return fmt.Errorf("查重失败: %w", err)
	}
	if exists {
		return nil
	}

	category, err := p.Store.CategoryByName(categoryName)
	if err != nil {
		return fmt.Errorf("查类别失败: %w", err)
	}

	desc := fmt.Sprintf("%s - %s", title, action)
	record := &models.Record{
		ID:          id,
		Description: &desc,
		Date:        &date,
		Amount:      amount,
		Source:      models.SourceMercadoPago,
	}
	if category != nil {
		record.CategoryID = &category.ID
	}
	return p.Store.InsertRecord(record)
}

func (p *MercadoPago) back(ctx context.Context) {
	if err := p.Reader.Back(ctx); err != nil {
		log.Printf("mercado pago: 返回列表页失败: %v", err)
	}
}
