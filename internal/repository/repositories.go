package repository

import (
	"github.com/deppfellow/names-api/internal/config"
	"github.com/deppfellow/names-api/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Names NameStore
}

// NewRepositories picks the names adapter from config and wraps it with
// store metrics.
func NewRepositories(s *server.Server) *Repositories {
	var names NameStore
	if s.Config.Supabase.Store == config.StorePostgres && s.DB != nil {
		names = NewPostgresNameRepo(s.DB.Pool)
	} else {
		names = NewRESTNameRepo(s.Supabase)
	}

	return &Repositories{
		Names: Instrument(names, s.Metrics),
	}
}
