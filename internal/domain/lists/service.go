package lists

import (
	"context"
	"errors"
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

func (s *Service) ListLists(ctx context.Context) ([]List, error) {
	result, err := s.repo.ListLists(ctx)
	if err != nil {
		return nil, fmt.Errorf("list lists: %w", err)
	}
	return result, nil
}

func (s *Service) GetList(ctx context.Context, id string) (*List, error) {
	list, found, err := s.repo.GetList(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("get list: %w", err)
	}
	if !found {
		return nil, ErrListNotFound
	}
	return &list, nil
}

func (s *Service) CreateList(ctx context.Context, input CreateListInput) (*List, error) {
	childName := normalizeText(input.ChildName)
	if childName == "" {
		return nil, ErrChildNameRequired
	}

	entries, err := normalizeItems(input.Items)
	if err != nil {
		return nil, err
	}

	list, err := s.repo.CreateList(ctx, childName, entries)
	if err != nil {
		if IsValidationError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("create list: %w", err)
	}
	return &list, nil
}

// UpdateList replaces only the fields present in input. An input with no
// fields still refreshes UpdatedAt.
func (s *Service) UpdateList(ctx context.Context, input UpdateListInput) (*List, error) {
	var patch Patch
	if input.ChildName != nil {
		childName := normalizeText(*input.ChildName)
		if childName == "" {
			return nil, ErrChildNameRequired
		}
		patch.ChildName = &childName
	}
	if input.Items != nil {
		entries, err := normalizeItems(*input.Items)
		if err != nil {
			return nil, err
		}
		patch.Items = &entries
	}

	list, found, err := s.repo.UpdateList(ctx, strings.TrimSpace(input.ID), patch)
	if err != nil {
		if IsValidationError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("update list: %w", err)
	}
	if !found {
		return nil, ErrListNotFound
	}
	return &list, nil
}

func (s *Service) DeleteList(ctx context.Context, id string) error {
	found, err := s.repo.DeleteList(ctx, strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	if !found {
		return ErrListNotFound
	}
	return nil
}

// IsValidationError reports whether err is caused by caller input.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrChildNameRequired) ||
		errors.Is(err, ErrItemIDRequired) ||
		errors.Is(err, ErrUnknownItem) ||
		errors.Is(err, ErrDuplicateItem)
}

func normalizeItems(entries []ListItem) ([]ListItem, error) {
	result := make([]ListItem, 0, len(entries))
	for _, entry := range entries {
		itemID := strings.TrimSpace(entry.ItemID)
		if itemID == "" {
			return nil, ErrItemIDRequired
		}
		quantity := entry.Quantity
		if quantity < DefaultQuantity {
			quantity = DefaultQuantity
		}
		result = append(result, ListItem{
			ItemID:   itemID,
			Quantity: quantity,
			Note:     normalizeText(entry.Note),
		})
	}
	return result, nil
}

func normalizeText(value string) string {
	return norm.NFC.String(strings.TrimSpace(value))
}
