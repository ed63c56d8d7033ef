// Package testutil provides an in-memory SQLite database with the
// application schema for package tests.
package testutil

import (
	"fmt"
	"sync"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS "users" (
		"id" TEXT PRIMARY KEY,
		"email" TEXT NOT NULL UNIQUE,
		"first_name" TEXT NOT NULL,
		"last_name" TEXT NOT NULL,
		"profile_image_url" TEXT,
		"phone_number" TEXT,
		"role" TEXT NOT NULL DEFAULT 'user',
		"created_at" DATETIME,
		"updated_at" DATETIME
	)`,
	`CREATE TABLE IF NOT EXISTS "categories" (
		"id" TEXT PRIMARY KEY,
		"name" TEXT NOT NULL,
		"slug" TEXT NOT NULL UNIQUE,
		"description" TEXT,
		"parent_id" TEXT REFERENCES "categories"("id"),
		"image_url" TEXT,
		"is_active" INTEGER NOT NULL DEFAULT 1,
		"created_at" DATETIME,
		"updated_at" DATETIME
	)`,
	`CREATE TABLE IF NOT EXISTS "products" (
		"id" TEXT PRIMARY KEY,
		"name" TEXT NOT NULL,
		"slug" TEXT NOT NULL UNIQUE,
		"description" TEXT NOT NULL,
		"price" DECIMAL(10,2) NOT NULL,
		"sale_price" DECIMAL(10,2),
		"stock_quantity" INTEGER NOT NULL DEFAULT 0,
		"category_id" TEXT NOT NULL REFERENCES "categories"("id"),
		"is_active" INTEGER NOT NULL DEFAULT 1,
		"created_at" DATETIME,
		"updated_at" DATETIME
	)`,
	`CREATE TABLE IF NOT EXISTS "product_images" (
		"id" TEXT PRIMARY KEY,
		"product_id" TEXT NOT NULL REFERENCES "products"("id") ON DELETE CASCADE,
		"image_url" TEXT NOT NULL,
		"alt_text" TEXT,
		"is_primary" INTEGER NOT NULL DEFAULT 0,
		"display_order" INTEGER NOT NULL DEFAULT 0,
		"created_at" DATETIME,
		"updated_at" DATETIME
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS "ux_product_images_primary"
		ON "product_images"("product_id") WHERE "is_primary" = 1`,
}

// tables in delete order.
var tables = []string{"product_images", "products", "categories", "users"}

var (
	once    sync.Once
	shared  *gorm.DB
	openErr error
)

// Open returns the process-wide in-memory database holding the schema. A
// single connection keeps every statement on the same database. Foreign keys
// are enforced as they are by the PostgreSQL migrations.
func Open() (*gorm.DB, error) {
	once.Do(func() {
		shared, openErr = open()
	})
	return shared, openErr
}

func open() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_foreign_keys=on"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	for _, ddl := range schema {
		if err := db.Exec(ddl).Error; err != nil {
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	return db, nil
}

// Reset empties every table.
func Reset(db *gorm.DB) error {
	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf(`DELETE FROM "%s"`, table)).Error; err != nil {
			return err
		}
	}
	return nil
}
