package api

import (
	"strconv"
	"strings"
	"time"

	"expensy/database"
	"expensy/models"

	"github.com/gin-gonic/gin"
)

// CategoryHandler 记账类别管理
type CategoryHandler struct{}

// NewCategoryHandler 创建类别处理器
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

type CategoryCreateRequest struct {
	Name    string  `json:"name" binding:"required,min=1,max=120"`
	AltName *string `json:"alt_name" binding:"omitempty,max=120"`
}

type CategoryUpdateRequest struct {
	Name    string  `json:"name" binding:"omitempty,min=1,max=120"`
	AltName *string `json:"alt_name" binding:"omitempty,max=120"`
}

// List 列出所有类别
// @Summary 获取类别列表
// @Description 获取所有记账类别，支持按名称模糊搜索
// @Tags 类别
// @Produce json
// @Param name query string false "类别名称（模糊匹配）"
// @Success 200 {object} Response{data=[]models.Category} "获取成功"
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	q := database.DB.Order("name ASC")
	if name := c.Query("name"); name != "" {
		q = q.Where("name LIKE ?", "%"+name+"%")
	}
	var list []models.Category
	if err := q.Find(&list).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, list)
}

// Create 创建类别
// @Summary 创建类别
// @Tags 类别
// @Accept json
// @Produce json
// @Param request body CategoryCreateRequest true "类别信息"
// @Success 200 {object} Response{data=models.Category} "创建成功"
// @Failure 400 {object} Response "参数错误"
// @Router /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CategoryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		BadRequest(c, "名称不能为空")
		return
	}

	cat := models.Category{Name: req.Name, AltName: req.AltName}
	if err := database.DB.Create(&cat).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建失败"))
		return
	}
	SuccessWithMessage(c, "创建成功", cat)
}

// Get 获取单个类别
// @Summary 获取类别详情
// @Tags 类别
// @Produce json
// @Param id path int true "类别ID"
// @Success 200 {object} Response{data=models.Category} "获取成功"
// @Failure 404 {object} Response "类别不存在"
// @Router /api/v1/categories/{id} [get]
func (h *CategoryHandler) Get(c *gin.Context) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}
	var cat models.Category
	if err := database.DB.First(&cat, uint(id64)).Error; err != nil {
		NotFound(c, "类别不存在")
		return
	}
	Success(c, cat)
}

// Update 更新类别
// @Summary 更新类别
// @Tags 类别
// @Accept json
// @Produce json
// @Param id path int true "类别ID"
// @Param request body CategoryUpdateRequest true "更新的类别信息"
// @Success 200 {object} Response{data=models.Category} "更新成功"
// @Failure 404 {object} Response "类别不存在"
// @Router /api/v1/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}
	var cat models.Category
	if err := database.DB.First(&cat, uint(id64)).Error; err != nil {
		NotFound(c, "类别不存在")
		return
	}

	var req CategoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = strings.TrimSpace(req.Name)
	}
	if req.AltName != nil {
		updates["alt_name"] = *req.AltName
	}
	if len(updates) == 0 {
		SuccessWithMessage(c, "无需更新", cat)
		return
	}

	if err := database.DB.Model(&cat).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新失败"))
		return
	}
	database.DB.First(&cat, cat.ID)
	SuccessWithMessage(c, "更新成功", cat)
}

// Delete 删除类别
// @Summary 删除类别
// @Description 删除类别并级联删除其下所有记录
// @Tags 类别
// @Produce json
// @Param id path int true "类别ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "类别不存在"
// @Router /api/v1/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}
	var cat models.Category
	if err := database.DB.First(&cat, uint(id64)).Error; err != nil {
		NotFound(c, "类别不存在")
		return
	}
	// 级联删除该类别下的记录（与外键策略一致，数据库未启用外键时兜底）
	if err := database.DB.Where("category_id = ?", cat.ID).Delete(&models.Record{}).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}
	if err := database.DB.Delete(&cat).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}

// MonthlyReportResponse 月度分类汇总返回
type MonthlyReportResponse struct {
	Month      int                `json:"month" example:"6"`
	Year       int                `json:"year" example:"2025"`
	Categories map[string]float64 `json:"categories"`
	Total      float64            `json:"total" example:"-12345.67"`
}

// uncategorizedBucket 无类别记录的汇总桶
const uncategorizedBucket = "Sin categoría"

// MonthlyReport 月度分类汇总报表
// @Summary 月度分类汇总
// @Description 按类别汇总指定月份的记录金额，无类别记录归入 "Sin categoría"
// @Tags 类别
// @Produce json
// @Param month query int false "月份 (1-12)，默认当前月"
// @Param year query int false "年份 (1900-2100)，默认当前年"
// @Success 200 {object} Response{data=MonthlyReportResponse} "获取成功"
// @Failure 400 {object} Response "参数超出范围"
// @Router /api/v1/categories/monthly-report [get]
func (h *CategoryHandler) MonthlyReport(c *gin.Context) {
	now := time.Now()
	month := int(now.Month())
	year := now.Year()

	var err error
	if s := c.Query("month"); s != "" {
		if month, err = strconv.Atoi(s); err != nil {
			BadRequest(c, "月份必须是整数")
			return
		}
	}
	if s := c.Query("year"); s != "" {
		if year, err = strconv.Atoi(s); err != nil {
			BadRequest(c, "年份必须是整数")
			return
		}
	}
	if month < 1 || month > 12 {
		BadRequest(c, "月份必须在 1-12 之间")
		return
	}
	if year < 1900 || year > 2100 {
		BadRequest(c, "年份必须在 1900-2100 之间")
		return
	}

	firstDay := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	lastDay := firstDay.AddDate(0, 1, -1)

	var rows []struct {
		Name  *string
		Total float64
	}
	err = database.DB.Model(&models.Record{}).
		Select("categories.name AS name, SUM(records.amount) AS total").
		Joins("LEFT JOIN categories ON categories.id = records.category_id").
		Where("records.date >= ? AND records.date <= ?", firstDay, lastDay).
		Group("categories.name").
		Order("categories.name").
		Scan(&rows).Error
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	report := MonthlyReportResponse{
		Month:      month,
		Year:       year,
		Categories: make(map[string]float64, len(rows)),
	}
	for _, row := range rows {
		name := uncategorizedBucket
		if row.Name != nil && *row.Name != "" {
			name = *row.Name
		}
		report.Categories[name] = row.Total
		report.Total += row.Total
	}
	Success(c, report)
}
