package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"expensy/database"
	"expensy/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler 导出处理器
type ExportHandler struct{}

// NewExportHandler 创建导出处理器
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// queryExportRecords 按日期范围查询待导出记录
func queryExportRecords(startDateStr, endDateStr string) ([]models.Record, string, error) {
	if startDateStr == "" || endDateStr == "" {
		return nil, "请提供开始日期和结束日期", nil
	}

	startDate, err := time.ParseInLocation("2006-01-02", startDateStr, time.Local)
	if err != nil {
		return nil, "开始日期格式错误，应为: 2006-01-02", nil
	}
	endDate, err := time.ParseInLocation("2006-01-02", endDateStr, time.Local)
	if err != nil {
		return nil, "结束日期格式错误，应为: 2006-01-02", nil
	}

	var records []models.Record
	err = database.DB.Preload("Category").
		Where("date >= ? AND date <= ?", startDate, endDate).
		Order("date DESC").Order("time DESC").
		Find(&records).Error
	if err != nil {
		return nil, "", err
	}
	return records, "", nil
}

func recordCategoryName(r *models.Record) string {
	if r.Category != nil {
		return r.Category.Name
	}
	return ""
}

func recordDescription(r *models.Record) string {
	if r.Description != nil {
		return *r.Description
	}
	return ""
}

func recordDate(r *models.Record) string {
	if r.Date != nil {
		return r.Date.Format("2006-01-02")
	}
	return ""
}

func recordTime(r *models.Record) string {
	if r.Time != nil {
		return *r.Time
	}
	return ""
}

// ExportCSV 导出记账记录为 CSV
// @Summary 导出记账记录
// @Description 根据日期范围导出记账记录为 CSV 文件
// @Tags 导出
// @Produce text/csv
// @Param start_date query string true "开始日期 (2025-01-01)"
// @Param end_date query string true "结束日期 (2025-12-31)"
// @Success 200 {file} file "CSV 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	startDateStr := c.Query("start_date")
	endDateStr := c.Query("end_date")

	records, badReq, err := queryExportRecords(startDateStr, endDateStr)
	if badReq != "" {
		BadRequest(c, badReq)
		return
	}
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询数据失败"))
		return
	}

	// 生成 CSV
	buf := new(bytes.Buffer)
	// 添加 BOM 以支持 Excel 中文显示
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)

	headers := []string{"ID", "描述", "日期", "时间", "类别", "金额", "来源", "已同步"}
	if err := writer.Write(headers); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}

	for i := range records {
		r := &records[i]
		row := []string{
			r.ID,
			recordDescription(r),
			recordDate(r),
			recordTime(r),
			recordCategoryName(r),
			fmt.Sprintf("%.2f", r.Amount),
			r.Source,
			fmt.Sprintf("%t", r.Sync),
		}
		if err := writer.Write(row); err != nil {
			InternalError(c, "生成 CSV 失败")
			return
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}

	filename := fmt.Sprintf("records_%s_%s.csv", startDateStr, endDateStr)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))

	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportExcel 导出记账记录为 Excel
// @Summary 导出记账记录为 Excel
// @Description 根据日期范围导出记账记录为 xlsx 文件，含汇总行
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param start_date query string true "开始日期 (2025-01-01)"
// @Param end_date query string true "结束日期 (2025-12-31)"
// @Success 200 {file} file "Excel 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	startDateStr := c.Query("start_date")
	endDateStr := c.Query("end_date")

	records, badReq, err := queryExportRecords(startDateStr, endDateStr)
	if badReq != "" {
		BadRequest(c, badReq)
		return
	}
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询数据失败"))
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "记账记录"
	f.SetSheetName("Sheet1", sheetName)

	// 表头样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	// 数据样式
	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	f.SetColWidth(sheetName, "A", "A", 42)
	f.SetColWidth(sheetName, "B", "B", 40)
	f.SetColWidth(sheetName, "C", "C", 12)
	f.SetColWidth(sheetName, "D", "D", 10)
	f.SetColWidth(sheetName, "E", "E", 16)
	f.SetColWidth(sheetName, "F", "F", 12)
	f.SetColWidth(sheetName, "G", "G", 16)
	f.SetColWidth(sheetName, "H", "H", 8)

	headers := []string{"ID", "描述", "日期", "时间", "类别", "金额", "来源", "已同步"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	var totalAmount float64
	for i := range records {
		r := &records[i]
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), recordDescription(r))
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), recordDate(r))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), recordTime(r))
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), recordCategoryName(r))
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), r.Amount)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), r.Source)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), r.Sync)

		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("H%d", row), dataStyle)
		totalAmount += r.Amount
	}

	// 汇总行
	summaryRow := len(records) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow), "合计")
	f.MergeCell(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("E%d", summaryRow))
	f.SetCellValue(sheetName, fmt.Sprintf("F%d", summaryRow), totalAmount)
	f.SetCellValue(sheetName, fmt.Sprintf("G%d", summaryRow), fmt.Sprintf("共 %d 条记录", len(records)))
	f.MergeCell(sheetName, fmt.Sprintf("G%d", summaryRow), fmt.Sprintf("H%d", summaryRow))
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("H%d", summaryRow), summaryStyle)

	filename := fmt.Sprintf("records_%s_%s.xlsx", startDateStr, endDateStr)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", filename))

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "生成 Excel 失败")
		return
	}
}
