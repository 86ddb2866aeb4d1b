package surrealdb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/finlens/internal/common"
	"github.com/bobmcallan/finlens/internal/interfaces"
	"github.com/bobmcallan/finlens/internal/models"
)

const companyTable = "company"

// CompanyStore implements interfaces.CompanyStore using SurrealDB.
type CompanyStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

// NewCompanyStore creates a new CompanyStore.
func NewCompanyStore(db *surrealdb.DB, logger *common.Logger) *CompanyStore {
	return &CompanyStore{db: db, logger: logger}
}

func companyRecordID(corpCode string) surrealmodels.RecordID {
	return surrealmodels.NewRecordID(companyTable, corpCode)
}

func (s *CompanyStore) Upsert(ctx context.Context, company *models.Company) error {
	if company == nil || company.CorpCode == "" {
		return fmt.Errorf("company corp code is required")
	}
	company.UpdatedAt = time.Now()

	sql := "UPSERT $rid CONTENT $company"
	vars := map[string]any{
		"rid":     companyRecordID(company.CorpCode),
		"company": company,
	}
	if _, err := surrealdb.Query[[]models.Company](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to upsert company %s: %w", company.CorpCode, err)
	}
	return nil
}

func (s *CompanyStore) UpsertBatch(ctx context.Context, companies []*models.Company) error {
	for _, c := range companies {
		if err := s.Upsert(ctx, c); err != nil {
			return err
		}
	}
	s.logger.Debug().Int("count", len(companies)).Msg("Companies upserted")
	return nil
}

// Get returns nil without error when the corp code is unknown.
func (s *CompanyStore) Get(ctx context.Context, corpCode string) (*models.Company, error) {
	company, err := surrealdb.Select[models.Company](ctx, s.db, companyRecordID(corpCode))
	if err != nil {
		if isNotFoundError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	if company == nil || company.CorpCode == "" {
		return nil, nil
	}
	return company, nil
}

func (s *CompanyStore) Search(ctx context.Context, keyword string, limit int) ([]*models.Company, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return []*models.Company{}, nil
	}
	if limit <= 0 {
		limit = 20
	}

	sql := "SELECT * FROM company WHERE string::lowercase(corp_name) CONTAINS string::lowercase($kw) ORDER BY corp_name ASC LIMIT $limit"
	vars := map[string]any{
		"kw":    keyword,
		"limit": limit,
	}

	results, err := surrealdb.Query[[]models.Company](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to search companies: %w", err)
	}

	companies := make([]*models.Company, 0)
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			companies = append(companies, &(*results)[0].Result[i])
		}
	}
	return companies, nil
}

func (s *CompanyStore) Count(ctx context.Context) (int, error) {
	sql := "SELECT count() AS cnt FROM company GROUP ALL"

	type countResult struct {
		Cnt int `json:"cnt"`
	}

	results, err := surrealdb.Query[[]countResult](ctx, s.db, sql, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count companies: %w", err)
	}

	if results != nil && len(*results) > 0 && len((*results)[0].Result) > 0 {
		return (*results)[0].Result[0].Cnt, nil
	}
	return 0, nil
}

func (s *CompanyStore) Delete(ctx context.Context, corpCode string) error {
	_, err := surrealdb.Delete[models.Company](ctx, s.db, companyRecordID(corpCode))
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete company: %w", err)
	}
	return nil
}

func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "does not exist")
}

// Compile-time check
var _ interfaces.CompanyStore = (*CompanyStore)(nil)
