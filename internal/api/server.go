package api

import (
	"sync"

	"github.com/sirupsen/logrus"

	"promoadmin/internal/presentation"
	"promoadmin/internal/store"
)

// Server держит реестр коллекций и хранилище связей.
type Server struct {
	mu       sync.RWMutex
	registry *presentation.Registry

	Store         store.Store
	Log           logrus.FieldLogger
	MetaDir       string
	OverridesFile string
}

func NewServer(reg *presentation.Registry, st store.Store, log logrus.FieldLogger) *Server {
	return &Server{registry: reg, Store: st, Log: log}
}

func (s *Server) Registry() *presentation.Registry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry
}

// swapRegistry атомарно заменяет реестр.
func (s *Server) swapRegistry(reg *presentation.Registry) {
	s.mu.Lock()
	s.registry = reg
	s.mu.Unlock()
}
