package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/codewitheasy-admin/internal/data/backend"
	"github.com/yungbote/codewitheasy-admin/internal/data/backend/gormstore"
	"github.com/yungbote/codewitheasy-admin/internal/data/backend/reststore"
	"github.com/yungbote/codewitheasy-admin/internal/data/db"
	"github.com/yungbote/codewitheasy-admin/internal/data/resource"
	"github.com/yungbote/codewitheasy-admin/internal/platform/logger"
)

// Storage is the selected backend plus the database it owns, if any.
type Storage struct {
	Backend backend.Backend
	DB      *gorm.DB
	close   func() error
}

func (s Storage) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

func wireStorage(log *logger.Logger, cfg Config, clients Clients, cat *resource.Catalog) (Storage, error) {
	log.Info("Wiring storage...", "backend", cfg.Backend)
	switch cfg.Backend {
	case BackendGorm:
		svc, err := db.NewService(db.Options{DSN: cfg.DatabaseURL}, log)
		if err != nil {
			return Storage{}, fmt.Errorf("init database: %w", err)
		}
		if cfg.AutoMigrate {
			if err := svc.AutoMigrateAll(); err != nil {
				_ = svc.Close()
				return Storage{}, err
			}
		}
		return Storage{Backend: gormstore.New(svc.DB(), cat, log), DB: svc.DB(), close: svc.Close}, nil
	case BackendREST:
		if clients.Supabase == nil {
			return Storage{}, fmt.Errorf("rest backend needs a supabase client")
		}
		return Storage{Backend: reststore.New(clients.Supabase.REST(), cat, log)}, nil
	default:
		return Storage{}, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
