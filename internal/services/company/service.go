// Package company searches the company directory
package company

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bobmcallan/finlens/internal/common"
	"github.com/bobmcallan/finlens/internal/interfaces"
	"github.com/bobmcallan/finlens/internal/models"
)

// SearchLimit caps the number of search results
const SearchLimit = 20

var (
	// ErrEmptyKeyword is returned for blank search keywords
	ErrEmptyKeyword = errors.New("search keyword is required")
	// ErrNotFound is returned when a corp code is not in the directory
	ErrNotFound = errors.New("company not found")
)

var _ interfaces.CompanyService = (*Service)(nil)

// Service implements CompanyService
type Service struct {
	store  interfaces.CompanyStore
	logger *common.Logger
}

// NewService creates a company service over the given store
func NewService(store interfaces.CompanyStore, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{store: store, logger: logger}
}

// Search returns up to SearchLimit companies whose name contains keyword
func (s *Service) Search(ctx context.Context, keyword string) ([]*models.Company, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, ErrEmptyKeyword
	}

	companies, err := s.store.Search(ctx, keyword, SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search companies: %w", err)
	}
	if companies == nil {
		companies = []*models.Company{}
	}

	s.logger.Debug().Str("keyword", keyword).Int("results", len(companies)).Msg("Company search")
	return companies, nil
}

// Get returns the company with the given corp code
func (s *Service) Get(ctx context.Context, corpCode string) (*models.Company, error) {
	corpCode = strings.TrimSpace(corpCode)
	if corpCode == "" {
		return nil, ErrNotFound
	}

	company, err := s.store.Get(ctx, corpCode)
	if err != nil {
		return nil, fmt.Errorf("get company %s: %w", corpCode, err)
	}
	if company == nil {
		return nil, ErrNotFound
	}
	return company, nil
}
