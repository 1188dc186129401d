package mysql

import (
	"sync"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/vaixxakh/Lumiere-Lighting/internal/config"
	"github.com/vaixxakh/Lumiere-Lighting/internal/datamodels/user"
)

var (
	db   *gorm.DB
	once sync.Once
)

// Init 初始化全局 GORM 实例并自动迁移远端订单库的表结构
func Init(cfg *config.MySQLConfig) *gorm.DB {
	once.Do(func() {
		var err error
		db, err = gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{})
		if err != nil {
			zap.L().Fatal("failed to connect mysql", zap.Error(err))
		}

		if err = db.AutoMigrate(&user.User{}, &productRow{}, &orderRow{}); err != nil {
			zap.L().Fatal("auto migrate failed", zap.Error(err))
		}
	})
	return db
}
