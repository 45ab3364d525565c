// Package scrape 基于 chromedp 的页面读取实现
// 连接一个已开启远程调试的浏览器实例（站点需要人工登录，
// 抓取复用登录后的会话），对应配置 scrape.devtools_url
package scrape

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"

	"expensy/ingest"
)

// 确认实现了抓取协作方接口
var _ ingest.PageReader = (*Reader)(nil)

// Reader chromedp 页面读取器
// 站点无就绪信号可依赖，导航与点击后做固定等待
type Reader struct {
	settle time.Duration
}

// NewReader 创建页面读取器，settle 为每次导航/点击后的等待时长
func NewReader(settle time.Duration) *Reader {
	return &Reader{settle: settle}
}

// NewBrowserContext 连接远程调试浏览器，返回 chromedp 上下文
// 返回的 cancel 只断开连接，不关闭浏览器
func NewBrowserContext(parent context.Context, devtoolsURL string) (context.Context, context.CancelFunc, error) {
	allocCtx, allocCancel := chromedp.NewRemoteAllocator(parent, devtoolsURL)
	ctx, ctxCancel := chromedp.NewContext(allocCtx)

	// 先确认浏览器可达，避免抓取中途才发现连接无效
	if err := chromedp.Run(ctx); err != nil {
		ctxCancel()
		allocCancel()
		return nil, nil, fmt.Errorf("连接浏览器失败 (%s): %w", devtoolsURL, err)
	}

	cancel := func() {
		ctxCancel()
		allocCancel()
	}
	return ctx, cancel, nil
}

// Navigate 打开页面并等待渲染稳定
func (r *Reader) Navigate(ctx context.Context, url string) error {
	return chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.Sleep(r.settle),
	)
}

// FindRows 按 XPath 查找一组元素
func (r *Reader) FindRows(ctx context.Context, root ingest.Element, selector string) ([]ingest.Element, error) {
	opts := []chromedp.QueryOption{chromedp.BySearch, chromedp.AtLeast(0)}
	if root != nil {
		node, err := toNode(root)
		if err != nil {
			return nil, err
		}
		opts = append(opts, chromedp.FromNode(node))
	}

	var nodes []*cdp.Node
	if err := chromedp.Run(ctx, chromedp.Nodes(selector, &nodes, opts...)); err != nil {
		return nil, fmt.Errorf("查找 %q 失败: %w", selector, err)
	}

	els := make([]ingest.Element, len(nodes))
	for i := range nodes {
		els[i] = nodes[i]
	}
	return els, nil
}

// ReadField 读取元素内指定 XPath 的文本
func (r *Reader) ReadField(ctx context.Context, el ingest.Element, selector string) (string, error) {
	opts := []chromedp.QueryOption{chromedp.BySearch}
	if el != nil {
		node, err := toNode(el)
		if err != nil {
			return "", err
		}
		if selector == "" {
			selector = "."
		}
		opts = append(opts, chromedp.FromNode(node))
	}

	var text string
	if err := chromedp.Run(ctx, chromedp.Text(selector, &text, opts...)); err != nil {
		return "", fmt.Errorf("读取 %q 失败: %w", selector, err)
	}
	return text, nil
}

// Click 点击元素并等待渲染稳定
func (r *Reader) Click(ctx context.Context, el ingest.Element) error {
	node, err := toNode(el)
	if err != nil {
		return err
	}
	return chromedp.Run(ctx,
		chromedp.MouseClickNode(node),
		chromedp.Sleep(r.settle),
	)
}

// Back 返回上一页并等待渲染稳定
func (r *Reader) Back(ctx context.Context) error {
	return chromedp.Run(ctx,
		chromedp.NavigateBack(),
		chromedp.Sleep(r.settle),
	)
}

func toNode(el ingest.Element) (*cdp.Node, error) {
	node, ok := el.(*cdp.Node)
	if !ok {
		return nil, fmt.Errorf("无效的元素句柄: %T", el)
	}
	return node, nil
}
