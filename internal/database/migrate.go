package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/opsre/trafficmind/internal/model"
)

// AutoMigrate 自动迁移数据库表结构
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.CitibikeTrip{},
		&model.Complaint{},
		&model.TrafficAccident{},
		&model.PermittedEvent{},
		&model.SubwayRidership{},
		&model.WeatherData{},
		&model.KnowledgeDocument{},
		&model.Conversation{},
		&model.ChatLog{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate tables: %w", err)
	}

	return nil
}
