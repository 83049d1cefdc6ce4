package app

import (
	"context"
	"os"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/MetlebHuseynov/proline-website-sub000/internal/domain"
	"github.com/MetlebHuseynov/proline-website-sub000/internal/store"
	"github.com/MetlebHuseynov/proline-website-sub000/pkg/common"
)

// MigrateDB runs schema migration in relational mode; the JSON backend
// has no schema to migrate
func (a *Application) MigrateDB(track bool) (err error) {
	defer func() {
		if err1 := recover(); err1 != nil {
			if os.Getenv("GO_DEBUG_TRACE") != "" {
				debug.PrintStack()
			}
			err2, ok := err1.(error)
			if ok {
				err = err2
				zap.S().Error(err2.Error())
			}
		}
	}()

	gs, ok := a.store.(*store.GormStore)
	if !ok {
		return nil
	}
	if track {
		if err := gs.DB().Debug().Migrator().AutoMigrate(domain.Tables...); err != nil {
			zap.S().Error(err)
		}
	} else {
		if err := gs.DB().Migrator().AutoMigrate(domain.Tables...); err != nil {
			zap.S().Error(err)
		}
	}
	return nil
}

// checkSuper ensures the default super admin account exists and is usable
func (a *Application) checkSuper() {
	const superUsername = "admin"
	const defaultPassword = "proline"

	ctx := context.Background()
	user, err := a.store.UserByUsername(ctx, superUsername)
	if err != nil {
		hash, herr := common.HashPassword(defaultPassword)
		if herr != nil {
			zap.L().Error("failed to hash default super admin password", zap.Error(herr))
			return
		}
		if err := a.store.CreateUser(ctx, &domain.User{
			ID:       common.UUIDint64(),
			Username: superUsername,
			Email:    "admin@localhost",
			Password: hash,
			Role:     domain.RoleSuperAdmin,
			Status:   common.ENABLED,
		}); err != nil {
			zap.L().Error("failed to create default super admin", zap.Error(err))
			return
		}
		zap.L().Info("initialized default super admin account", zap.String("username", superUsername))
		return
	}

	resetRole := user.Role != domain.RoleSuperAdmin
	resetStatus := user.Status != common.ENABLED
	if !resetRole && !resetStatus {
		return
	}

	user.Role = domain.RoleSuperAdmin
	user.Status = common.ENABLED
	if err := a.store.UpdateUser(ctx, user); err != nil {
		zap.L().Error("failed to repair super admin account", zap.Error(err))
		return
	}
	zap.L().Warn("repaired default super admin account",
		zap.String("username", superUsername),
		zap.Bool("roleReset", resetRole),
		zap.Bool("statusEnabled", resetStatus))
}

// default settings, created when missing
var defaultSettings = []struct {
	Type   string
	Name   string
	Value  string
	Remark string
}{
	{"site", "title", "Proline", "Public site title"},
	{"site", "contact_email", "info@localhost", "Contact address shown in the footer"},
	{"catalog", "currency", "AZN", "Display currency"},
	{"catalog", "page_size", "20", "Default catalog page size"},
}

func (a *Application) checkSettings() {
	ctx := context.Background()
	for _, s := range defaultSettings {
		if _, err := a.store.GetSetting(ctx, s.Type, s.Name); err == nil {
			continue
		}
		if err := a.store.SaveSetting(ctx, s.Type, s.Name, s.Value); err != nil {
			zap.L().Error("failed to initialize setting",
				zap.String("key", s.Type+"."+s.Name), zap.Error(err))
			continue
		}
		zap.L().Info("initialized setting",
			zap.String("key", s.Type+"."+s.Name),
			zap.String("default", s.Value))
	}
}
