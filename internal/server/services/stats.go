package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/osamanazar47/alx-files-manager/internal/server/repositories/repomanager"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// SessionPinger adapts the session store's Ping.
type SessionPinger interface {
	Ping() error
}

// Status is the health payload. "redis" keeps its historical name and is the
// session store.
type Status struct {
	Redis bool `json:"redis"`
	DB    bool `json:"db"`
}

// Healthy reports whether every dependency is up.
func (s Status) Healthy() bool { return s.Redis && s.DB }

type Stats struct {
	Users int64 `json:"users"`
	Files int64 `json:"files"`
}

type StatsService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	metadata    Pinger
	sessions    SessionPinger
}

func NewStatsService(db *sql.DB, m repomanager.RepositoryManager, metadata Pinger, sessions SessionPinger) *StatsService {
	return &StatsService{db: db, repomanager: m, metadata: metadata, sessions: sessions}
}

func (s *StatsService) Status(ctx context.Context) Status {
	return Status{
		Redis: s.sessions.Ping() == nil,
		DB:    s.metadata.PingContext(ctx) == nil,
	}
}

func (s *StatsService) Stats(ctx context.Context) (*Stats, error) {
	users, err := s.repomanager.Users(s.db).Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting users: %w", err)
	}
	files, err := s.repomanager.Files(s.db).Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting files: %w", err)
	}
	return &Stats{Users: users, Files: files}, nil
}
