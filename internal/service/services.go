// Package service contains the business logic.
//
// It sits between the handler and repository layers: it receives validated
// input from handlers, applies the domain rules (timestamps, logging) and
// calls the repository.
package service

import (
	"github.com/deppfellow/names-api/internal/repository"
	"github.com/deppfellow/names-api/internal/server"
)

type Services struct {
	Names *NameService
}

func NewServices(s *server.Server, repos *repository.Repositories) *Services {
	return &Services{
		Names: NewNameService(repos.Names, s.Logger),
	}
}
