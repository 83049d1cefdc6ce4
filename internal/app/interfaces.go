package app

import (
	"github.com/robfig/cron/v3"

	"github.com/MetlebHuseynov/proline-website-sub000/config"
	"github.com/MetlebHuseynov/proline-website-sub000/internal/featured"
	"github.com/MetlebHuseynov/proline-website-sub000/internal/store"
)

// StoreProvider provides catalog storage access
type StoreProvider interface {
	Store() store.Store
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// CuratorProvider provides the featured list curators keyed by list type
type CuratorProvider interface {
	Curators() map[string]*featured.Curator
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// AppContext combines all provider interfaces for full application context
// Services should depend on specific providers or this combined interface
type AppContext interface {
	StoreProvider
	ConfigProvider
	CuratorProvider
	SchedulerProvider

	// Application lifecycle methods
	MigrateDB(track bool) error
	Release()
}
