package ingest

import (
	"context"
	"fmt"
	"log"

	"expensy/classify"
	"expensy/models"
	"expensy/parse"
)

// Macro 银行网银流水选择器
const (
	macroMenuMovs   = ".//li[@id='menu_movs']"
	macroRows       = "//tr[@class='evenRow' or @class='oddRow']"
	macroFieldDesc  = "./td[@headers='_Descripción']"
	macroFieldDate  = "./td[@headers='_Fecha']"
	macroFieldTxnNo = "./td[@headers='_Nro. transacción']"
	macroFieldAmt   = "./td[@headers='_Importe']"
)

// Macro 银行流水抓取流水线
type Macro struct {
	URL        string
	Reader     PageReader
	Store      Store
	Classifier *classify.Classifier
}

// Run 执行一轮抓取：逐行分类、解析、查重、入库
// 单行失败只记录日志并跳过；页面级失败直接返回错误终止本轮
// 重复执行是安全的：记录 ID 由内容哈希得出，已存在即静默跳过
func (p *Macro) Run(ctx context.Context) error {
	if err := p.Reader.Navigate(ctx, p.URL); err != nil {
		return fmt.Errorf("macro: 打开页面失败: %w", err)
	}

	// 进入“movimientos”菜单
	menus, err := p.Reader.FindRows(ctx, nil, macroMenuMovs)
	if err != nil || len(menus) < 2 {
		return fmt.Errorf("macro: 未找到流水菜单: %w", err)
	}
	if err := p.Reader.Click(ctx, menus[1]); err != nil {
		return fmt.Errorf("macro: 打开流水页失败: %w", err)
	}

	rows, err := p.Reader.FindRows(ctx, nil, macroRows)
	if err != nil {
		return fmt.Errorf("macro: 读取流水失败: %w", err)
	}

	for i, row := range rows {
		if err := p.ingestRow(ctx, row); err != nil {
			log.Printf("macro: 第 %d 行处理失败，跳过: %v", i, err)
		}
	}
	return nil
}

// ingestRow 处理单行流水，行内任何失败只影响该行
func (p *Macro) ingestRow(ctx context.Context, row Element) error {
	description, err := p.Reader.ReadField(ctx, row, macroFieldDesc)
	if err != nil {
		return fmt.Errorf("读取描述失败: %w", err)
	}

	// 未命中分类规则的行直接丢弃，不算错误
	categoryID := p.Classifier.Classify(description)
	if categoryID == classify.NoMatch {
		return nil
	}

	rawDate, err := p.Reader.ReadField(ctx, row, macroFieldDate)
	if err != nil {
		return fmt.Errorf("读取日期失败: %w", err)
	}
	date, err := parse.ParseDayMonthYear(rawDate)
	if err != nil {
		return err
	}

	txnNumber, err := p.Reader.ReadField(ctx, row, macroFieldTxnNo)
	if err != nil {
		return fmt.Errorf("读取交易号失败: %w", err)
	}

	rawAmount, err := p.Reader.ReadField(ctx, row, macroFieldAmt)
	if err != nil {
		return fmt.Errorf("读取金额失败: %w", err)
	}
	amountStr, amount, err := parse.NormalizeBankAmount(rawAmount)
	if err != nil {
		return err
	}

	// 原始日期文本 + 交易号 + 规范化金额文本共同标识一笔交易
	id := RecordID(rawDate, txnNumber, amountStr)

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

	// 描述后附原始日期文本，便于与页面对账
	desc := fmt.Sprintf("%s. %s", description, rawDate)
	record := &models.Record{
		ID:          id,
		Description: &desc,
		Date:        &date,
		Amount:      amount,
		Source:      models.SourceMacro,
	}
	if category != nil {
		record.CategoryID = &category.ID
	}
	return p.Store.InsertRecord(record)
}
