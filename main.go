package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"expensy/classify"
	"expensy/config"
	"expensy/database"
	"expensy/ingest"
	"expensy/router"
	"expensy/scrape"
	"expensy/service"
)

// @title 记账系统 API
// @version 1.0
// @description 个人记账系统 API，支持记录与类别管理、月度报表、数据导出和表格同步
// @host localhost:8080
// @BasePath /

var (
	configFile  string
	port        string
	showVersion bool
	ingestFrom  string
	syncSheet   bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "外部配置文件路径（可选）")
	flag.StringVar(&configFile, "c", "", "外部配置文件路径（简写）")
	flag.StringVar(&port, "port", "", "监听端口，如: 8080 或 :8080")
	flag.StringVar(&port, "p", "", "监听端口（简写）")
	flag.BoolVar(&showVersion, "version", false, "显示版本信息")
	flag.BoolVar(&showVersion, "v", false, "显示版本信息（简写）")
	flag.StringVar(&ingestFrom, "ingest", "", "抓取数据来源: macro 或 mercadopago（执行一轮后退出）")
	flag.BoolVar(&syncSheet, "sync-sheet", false, "将未同步记录写入 Google Sheets 后退出")
}

func main() {
	flag.Parse()

	if showVersion {
		log.Println("记账系统 v1.0.0")
		return
	}

	// 加载配置（内置配置 + 可选的外部配置覆盖）
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 命令行参数覆盖端口配置
	if port != "" {
		// 自动添加冒号前缀
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		log.Printf("命令行指定端口: %s", port)
	}

	// 打印配置信息
	config.PrintConfig()

	// 初始化数据库
	if err := database.Init(cfg); err != nil {
		log.Fatalf("数据库初始化失败: %v", err)
	}

	// 一次性任务模式
	if ingestFrom != "" {
		runIngest(cfg, ingestFrom)
		return
	}
	if syncSheet {
		runSyncSheet(cfg)
		return
	}

	// 设置路由
	r := router.SetupRouter(cfg)

	// 启动服务器
	log.Printf("==========================================")
	log.Printf("  💰 记账系统已启动")
	log.Printf("==========================================")
	log.Printf("  Swagger:  http://localhost%s/swagger/index.html", cfg.Server.Port)
	log.Printf("  API接口:  http://localhost%s/api/v1/", cfg.Server.Port)
	log.Printf("==========================================")

	if err := r.Run(cfg.Server.Port); err != nil {
		log.Fatalf("服务器启动失败: %v", err)
	}
}

// runIngest 连接远程浏览器，执行一轮指定来源的抓取
func runIngest(cfg *config.Config, source string) {
	ctx, cancel, err := scrape.NewBrowserContext(context.Background(), cfg.Scrape.DevtoolsURL)
	if err != nil {
		log.Fatalf("连接浏览器失败: %v", err)
	}
	defer cancel()

	reader := scrape.NewReader(time.Duration(cfg.Scrape.SettleSeconds) * time.Second)
	store := database.NewStore(database.DB)

	switch source {
	case "macro":
		classifier, err := classify.New(cfg.ClassifierRules())
		if err != nil {
			log.Fatalf("加载分类规则失败: %v", err)
		}
		pipeline := &ingest.Macro{
			URL:        cfg.Scrape.MacroURL,
			Reader:     reader,
			Store:      store,
			Classifier: classifier,
		}
		if err := pipeline.Run(ctx); err != nil {
			log.Fatalf("macro 抓取失败: %v", err)
		}
	case "mercadopago":
		pipeline := &ingest.MercadoPago{
			URL:    cfg.Scrape.MercadoPagoURL,
			Reader: reader,
			Store:  store,
		}
		if err := pipeline.Run(ctx); err != nil {
			log.Fatalf("mercado pago 抓取失败: %v", err)
		}
	default:
		log.Fatalf("未知的抓取来源: %s（可选: macro, mercadopago）", source)
	}
	log.Printf("抓取完成: %s", source)
}

// runSyncSheet 将未同步记录批量写入 Google Sheets 并标记
func runSyncSheet(cfg *config.Config) {
	ctx := context.Background()
	sink, err := service.NewGoogleSheet(ctx, &cfg.Sheet)
	if err != nil {
		log.Fatalf("初始化 Google Sheets 失败: %v", err)
	}

	svc := &service.SyncService{
		Store: database.NewStore(database.DB),
		Sink:  sink,
	}
	count, err := svc.Run(ctx)
	if err != nil {
		log.Fatalf("同步失败: %v", err)
	}
	log.Printf("同步完成，共写入 %d 条记录", count)
}
