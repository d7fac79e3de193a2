package db

import "gorm.io/gorm"

// Database is the process-wide store handle injected into repositories.
type Database interface {
	GetDB() *gorm.DB
	Close() error
}

type GormDatabase struct {
	DB *gorm.DB
}

func (g *GormDatabase) GetDB() *gorm.DB { return g.DB }

func (g *GormDatabase) Close() error {
	sqlDB, err := g.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
