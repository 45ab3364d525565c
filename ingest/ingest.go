// Package ingest 实现各来源的交易抓取入库流水线
// 页面读取、存储均为注入的协作方接口，核心流程不依赖具体浏览器或数据库实现
package ingest

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"expensy/models"
)

// Element 页面元素的不透明句柄，由 PageReader 实现赋义
type Element interface{}

// PageReader 页面读取协作方
// Navigate/FindRows 失败视为协作方级故障，终止本次抓取；
// ReadField/Click 的失败由调用方按行隔离处理
type PageReader interface {
	// Navigate 打开页面并等待渲染稳定
	Navigate(ctx context.Context, url string) error
	// FindRows 按选择器查找一组元素；root 为 nil 时从整页查找
	FindRows(ctx context.Context, root Element, selector string) ([]Element, error)
	// ReadField 读取元素内指定选择器的文本；selector 为空时读取元素自身文本
	ReadField(ctx context.Context, el Element, selector string) (string, error)
	// Click 点击元素并等待渲染稳定
	Click(ctx context.Context, el Element) error
	// Back 返回上一页并等待渲染稳定
	Back(ctx context.Context) error
}

// Store 存储协作方
// 入库只做“不存在才插入”，任何更新都走 CRUD 接口
type Store interface {
	// CategoryByID 按 ID 查类别，未找到返回 nil
	CategoryByID(id uint) (*models.Category, error)
	// CategoryByName 按名称模糊匹配第一个类别，未找到返回 nil
	CategoryByName(name string) (*models.Category, error)
	// RecordExists 判断记录 ID 是否已存在
	RecordExists(id string) (bool, error)
	// InsertRecord 插入一条新记录
	InsertRecord(r *models.Record) error
}

// RecordID 对来源的区分字段做内容哈希，得到稳定的记录 ID
// 各字段按逗号拼接后取 SHA1 十六进制摘要（40 字符），
// 同一笔交易重复抓取得到相同 ID，由此保证入库幂等
func RecordID(parts ...string) string {
	sum := sha1.Sum([]byte(strings.Join(parts, ",")))
	return hex.EncodeToString(sum[:])
}
