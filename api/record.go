package api

import (
	"strconv"
	"time"

	"expensy/database"
	"expensy/models"

	"github.com/gin-gonic/gin"
)

// RecordHandler 记账记录管理
type RecordHandler struct{}

// NewRecordHandler 创建记录处理器
func NewRecordHandler() *RecordHandler {
	return &RecordHandler{}
}

type RecordCreateRequest struct {
	ID          string  `json:"id" binding:"omitempty,max=40"`
	Description *string `json:"description" binding:"omitempty,max=350"`
	Date        *string `json:"date" binding:"omitempty"`
	Time        *string `json:"time" binding:"omitempty"`
	CategoryID  *uint   `json:"category_id" binding:"omitempty"`
	Amount      float64 `json:"amount" binding:"required"`
	Source      string  `json:"source" binding:"omitempty,max=50"`
}

type RecordUpdateRequest struct {
	Description *string  `json:"description" binding:"omitempty,max=350"`
	Date        *string  `json:"date" binding:"omitempty"`
	Time        *string  `json:"time" binding:"omitempty"`
	CategoryID  *uint    `json:"category_id" binding:"omitempty"`
	Amount      *float64 `json:"amount" binding:"omitempty"`
	Sync        *bool    `json:"sync" binding:"omitempty"`
}

type BulkSyncRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

func parseDateParam(s string) (*time.Time, error) {
	d, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create 创建记录
// @Summary 创建记录
// @Description 手动录入一条记账记录，ID 省略时自动生成
// @Tags 记录
// @Accept json
// @Produce json
// @Param request body RecordCreateRequest true "记录信息"
// @Success 200 {object} Response{data=models.Record} "创建成功"
// @Failure 400 {object} Response "参数错误"
// @Router /api/v1/records [post]
func (h *RecordHandler) Create(c *gin.Context) {
	var req RecordCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	rec := models.Record{
		ID:          req.ID,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		Time:        req.Time,
		Source:      req.Source,
	}
	if rec.ID == "" {
		rec.ID = models.NewRecordID()
	}
	if rec.Source == "" {
		rec.Source = models.SourceManual
	}
	if req.Date != nil && *req.Date != "" {
		d, err := parseDateParam(*req.Date)
		if err != nil {
			BadRequest(c, "日期格式错误，应为 YYYY-MM-DD")
			return
		}
		rec.Date = d
	}
	if req.CategoryID != nil {
		var cat models.Category
		if err := database.DB.First(&cat, *req.CategoryID).Error; err != nil {
			BadRequest(c, "类别不存在")
			return
		}
	}

	if err := database.DB.Create(&rec).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建失败"))
		return
	}
	SuccessWithMessage(c, "创建成功", rec)
}

// List 分页查询记录
// @Summary 获取记录列表
// @Description 分页获取记录，支持按类别和日期范围过滤，按日期时间倒序
// @Tags 记录
// @Produce json
// @Param page query int false "页码，默认1"
// @Param page_size query int false "每页数量，默认10"
// @Param category_id query int false "类别ID"
// @Param start_date query string false "开始日期 YYYY-MM-DD"
// @Param end_date query string false "结束日期 YYYY-MM-DD"
// @Success 200 {object} PageResponse{data=[]models.Record} "获取成功"
// @Router /api/v1/records [get]
func (h *RecordHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	q := database.DB.Model(&models.Record{})
	if s := c.Query("category_id"); s != "" {
		catID, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			BadRequest(c, "无效的类别ID")
			return
		}
		q = q.Where("category_id = ?", uint(catID))
	}
	if s := c.Query("start_date"); s != "" {
		d, err := parseDateParam(s)
		if err != nil {
			BadRequest(c, "开始日期格式错误")
			return
		}
		q = q.Where("date >= ?", d)
	}
	if s := c.Query("end_date"); s != "" {
		d, err := parseDateParam(s)
		if err != nil {
			BadRequest(c, "结束日期格式错误")
			return
		}
		q = q.Where("date <= ?", d)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	var list []models.Record
	err := q.Preload("Category").
		Order("date DESC").Order("time DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&list).Error
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	SuccessPage(c, list, total, page, pageSize)
}

// Get 获取单条记录
// @Summary 获取记录详情
// @Tags 记录
// @Produce json
// @Param id path string true "记录ID"
// @Success 200 {object} Response{data=models.Record} "获取成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/records/{id} [get]
func (h *RecordHandler) Get(c *gin.Context) {
	var rec models.Record
	err := database.DB.Preload("Category").First(&rec, "id = ?", c.Param("id")).Error
	if err != nil {
		NotFound(c, "记录不存在")
		return
	}
	Success(c, rec)
}

// Update 更新记录
// @Summary 更新记录
// @Description 按字段部分更新记录
// @Tags 记录
// @Accept json
// @Produce json
// @Param id path string true "记录ID"
// @Param request body RecordUpdateRequest true "更新的记录信息"
// @Success 200 {object} Response{data=models.Record} "更新成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/records/{id} [put]
func (h *RecordHandler) Update(c *gin.Context) {
	var rec models.Record
	if err := database.DB.First(&rec, "id = ?", c.Param("id")).Error; err != nil {
		NotFound(c, "记录不存在")
		return
	}

	var req RecordUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Date != nil {
		if *req.Date == "" {
			updates["date"] = nil
		} else {
			d, err := parseDateParam(*req.Date)
			if err != nil {
				BadRequest(c, "日期格式错误，应为 YYYY-MM-DD")
				return
			}
			updates["date"] = d
		}
	}
	if req.Time != nil {
		updates["time"] = *req.Time
	}
	if req.CategoryID != nil {
		var cat models.Category
		if err := database.DB.First(&cat, *req.CategoryID).Error; err != nil {
			BadRequest(c, "类别不存在")
			return
		}
		updates["category_id"] = *req.CategoryID
	}
	if req.Amount != nil {
		updates["amount"] = *req.Amount
	}
	if req.Sync != nil {
		updates["sync"] = *req.Sync
	}
	if len(updates) == 0 {
		SuccessWithMessage(c, "无需更新", rec)
		return
	}

	if err := database.DB.Model(&rec).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新失败"))
		return
	}
	database.DB.Preload("Category").First(&rec, "id = ?", rec.ID)
	SuccessWithMessage(c, "更新成功", rec)
}

// Delete 删除记录
// @Summary 删除记录
// @Tags 记录
// @Produce json
// @Param id path string true "记录ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/records/{id} [delete]
func (h *RecordHandler) Delete(c *gin.Context) {
	var rec models.Record
	if err := database.DB.First(&rec, "id = ?", c.Param("id")).Error; err != nil {
		NotFound(c, "记录不存在")
		return
	}
	if err := database.DB.Delete(&rec).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}

// Recents 获取最近记录
// @Summary 获取最近记录
// @Description 按日期时间倒序取最近 N 条记录，N 默认 10，最大 100
// @Tags 记录
// @Produce json
// @Param size query int false "数量 (1-100)，默认10"
// @Success 200 {object} Response{data=[]models.Record} "获取成功"
// @Failure 400 {object} Response "数量超出范围"
// @Router /api/v1/records/recents [get]
func (h *RecordHandler) Recents(c *gin.Context) {
	size := 10
	if s := c.Query("size"); s != "" {
		var err error
		if size, err = strconv.Atoi(s); err != nil {
			BadRequest(c, "数量必须是整数")
			return
		}
	}
	if size < 1 || size > 100 {
		BadRequest(c, "数量必须在 1-100 之间")
		return
	}

	var list []models.Record
	err := database.DB.Preload("Category").
		Order("date DESC").Order("time DESC").
		Limit(size).Find(&list).Error
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, list)
}

// BulkSync 批量标记已同步
// @Summary 批量标记已同步
// @Description 将指定 ID 的记录标记为已同步，任一 ID 不存在则整批失败
// @Tags 记录
// @Accept json
// @Produce json
// @Param request body BulkSyncRequest true "记录ID列表"
// @Success 200 {object} Response "标记成功"
// @Failure 400 {object} Response "存在无效ID"
// @Router /api/v1/records/bulk-sync [post]
func (h *RecordHandler) BulkSync(c *gin.Context) {
	var req BulkSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	var count int64
	if err := database.DB.Model(&models.Record{}).Where("id IN ?", req.IDs).Count(&count).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	if count != int64(len(req.IDs)) {
		BadRequest(c, "存在无效的记录ID，未做任何标记")
		return
	}

	err := database.DB.Model(&models.Record{}).Where("id IN ?", req.IDs).Update("sync", true).Error
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "标记失败"))
		return
	}
	SuccessWithMessage(c, "标记成功", gin.H{"count": len(req.IDs)})
}
