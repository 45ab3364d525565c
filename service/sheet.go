package service

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"expensy/config"
)

// SheetSink 表格导出落地协作方：先按批量大小预留写入区间，再整批写入
type SheetSink interface {
	// LastRowRange 返回表格末尾、可容纳 amountRows 行的 A1 区间
	LastRowRange(ctx context.Context, amountRows int) (string, error)
	// Write 将整批行写入指定区间
	Write(ctx context.Context, rangeStr string, rows [][]interface{}) error
}

// GoogleSheet 基于 Google Sheets API 的落地实现，使用服务账号凭证
type GoogleSheet struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
}

var _ SheetSink = (*GoogleSheet)(nil)

// NewGoogleSheet 创建 Google Sheets 客户端
func NewGoogleSheet(ctx context.Context, cfg *config.SheetConfig) (*GoogleSheet, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("未配置 sheet.spreadsheet_id")
	}
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("创建 Sheets 客户端失败: %w", err)
	}
	return &GoogleSheet{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
	}, nil
}

// LastRowRange 读取现有数据行数，返回紧随其后的 A:F 六列区间
func (g *GoogleSheet) LastRowRange(ctx context.Context, amountRows int) (string, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, g.sheetName).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("读取表格失败: %w", err)
	}
	lastRow := len(resp.Values)
	return fmt.Sprintf("%s!A%d:F%d", g.sheetName, lastRow+1, lastRow+amountRows), nil
}

// Write 整批写入，原样写值不做格式推断
func (g *GoogleSheet) Write(ctx context.Context, rangeStr string, rows [][]interface{}) error {
	_, err := g.svc.Spreadsheets.Values.
		Update(g.spreadsheetID, rangeStr, &sheets.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("写入表格失败: %w", err)
	}
	return nil
}
