package items

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListItems(ctx context.Context) ([]ItemWithUsage, error) {
	result, err := s.repo.ListItemsWithUsage(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return result, nil
}

func (s *Service) GetItem(ctx context.Context, id string) (*ItemWithUsage, error) {
	item, found, err := s.repo.GetItemWithUsage(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if !found {
		return nil, ErrItemNotFound
	}
	return &item, nil
}

func (s *Service) CreateItem(ctx context.Context, name string) (*Item, error) {
	name = normalizeName(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	item, err := s.repo.CreateItem(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return &item, nil
}

func (s *Service) RenameItem(ctx context.Context, id, name string) (*Item, error) {
	name = normalizeName(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	item, found, err := s.repo.RenameItem(ctx, strings.TrimSpace(id), name)
	if err != nil {
		return nil, fmt.Errorf("rename item: %w", err)
	}
	if !found {
		return nil, ErrItemNotFound
	}
	return &item, nil
}

// DeleteItem removes the item and drops it from every list that references it.
func (s *Service) DeleteItem(ctx context.Context, id string) error {
	found, err := s.repo.DeleteItem(ctx, strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if !found {
		return ErrItemNotFound
	}
	return nil
}

// normalizeName trims and converts to NFC so that names typed with combining
// accents match their precomposed form.
func normalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}
