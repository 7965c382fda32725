package client

import (
	"context"

	"github.com/healthyindia/labelscan/internal/client/models"
)

type memoryStore struct {
	identity *models.Identity
	pin      *models.PinLock
}

func (s *memoryStore) LoadIdentity(context.Context) (*models.Identity, error) { return s.identity, nil }
func (s *memoryStore) LoadPin(context.Context) (*models.PinLock, error)       { return s.pin, nil }

func (s *memoryStore) SaveIdentity(_ context.Context, id models.Identity) error {
	s.identity = &id
	return nil
}

func (s *memoryStore) SavePin(_ context.Context, lock models.PinLock) error {
	s.pin = &lock
	return nil
}

func (s *memoryStore) Clear(context.Context) error {
	s.identity, s.pin = nil, nil
	return nil
}
