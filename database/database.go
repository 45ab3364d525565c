package database

import (
	"fmt"
	"log"

	"expensy/config"
	"expensy/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init 初始化数据库连接
func Init(cfg *config.Config) error {
	// 构建 MySQL DSN 连接字符串
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
	)

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return fmt.Errorf("连接数据库失败: %w", err)
	}

	// 获取底层 *sql.DB 连接池配置
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	// 自动迁移数据库表
	if err := DB.AutoMigrate(
		&models.Category{},
		&models.Record{},
	); err != nil {
		return err
	}

	// 初始化默认类别（仅当表为空时）
	// 类别 ID 与内置分类规则表保持一致，因此显式指定主键
	var catCount int64
	DB.Model(&models.Category{}).Count(&catCount)
	if catCount == 0 {
		alt := func(s string) *string { return &s }
		defaultCats := []models.Category{
			{ID: 1, Name: "Comida"},
			{ID: 2, Name: "Transporte"},
			{ID: 3, Name: "Servicios", AltName: alt("Luz y agua")},
			{ID: 4, Name: "Supermercado"},
			{ID: 5, Name: "Salud"},
			{ID: 14, Name: "Préstamos"},
			{ID: 21, Name: "Ingresos", AltName: alt("MercadoLibre")},
		}
		if err := DB.Create(&defaultCats).Error; err != nil {
			log.Printf("警告: 初始化默认类别失败: %v", err)
		}
	}

	log.Println("数据库初始化成功")
	return nil
}

// GetDB 获取数据库连接
func GetDB() *gorm.DB {
	return DB
}
