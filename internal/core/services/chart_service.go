package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
)

// chartService implements the ChartOfAccountsSvc interface
type chartService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryWithTx
	now         func() time.Time
}

// NewChartService creates a new chart of accounts service.
func NewChartService(repo portsrepo.AccountRepositoryWithTx, logger *slog.Logger) portssvc.ChartOfAccountsSvc {
	return &chartService{
		BaseService: newBaseService(logger),
		accountRepo: repo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Ensure chartService implements the ChartOfAccountsSvc interface
var _ portssvc.ChartOfAccountsSvc = (*chartService)(nil)

func (s *chartService) ResolveAccounts(ctx context.Context, tenantID *string, codes []string) (map[string]domain.Account, error) {
	if len(codes) == 0 {
		return map[string]domain.Account{}, nil
	}

	unique := uniqueStrings(codes)
	accounts, err := s.accountRepo.FindAccountsByCodes(ctx, tenantID, unique)
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve account codes", tenantAttr(tenantID), slog.Int("code_count", len(unique)))
		return nil, fmt.Errorf("resolve accounts: %w", err)
	}
	return accounts, nil
}

func (s *chartService) FindByCode(ctx context.Context, tenantID *string, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, tenantID, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(apperrors.CodeAccountNotFound,
				fmt.Sprintf("account %s not found", code)).
				WithDetail("accountCode", code)
		}
		s.LogError(ctx, err, "Failed to find account by code", tenantAttr(tenantID), slog.String("account_code", code))
		return nil, fmt.Errorf("find account %s: %w", code, err)
	}
	return account, nil
}

// SeedAccounts inserts every seed whose code is not yet present, then links parents
// by code. Existing accounts are never modified except to fill a missing parent link.
func (s *chartService) SeedAccounts(ctx context.Context, tenantID *string, seeds []domain.AccountSeed, actorID string) (*domain.SeedReport, error) {
	logger := s.GetLogger(ctx)

	if err := validateSeeds(seeds); err != nil {
		return nil, err
	}

	report := &domain.SeedReport{Created: []string{}, Skipped: []string{}, Linked: []string{}}
	err := s.accountRepo.RunInTransaction(ctx, func(txCtx context.Context) error {
		now := s.now()
		for _, seed := range seeds {
			account := domain.Account{
				AccountID:   uuid.NewString(),
				TenantID:    tenantID,
				Code:        seed.Code,
				Name:        seed.Name,
				AccountType: seed.Type,
				IsActive:    !seed.Inactive,
				IsSystem:    seed.System,
				AuditFields: domain.NewAuditFields(actorID, now),
			}
			created, err := s.accountRepo.CreateAccountIfAbsent(txCtx, account)
			if err != nil {
				return fmt.Errorf("create account %s: %w", seed.Code, err)
			}
			if created {
				report.Created = append(report.Created, seed.Code)
			} else {
				report.Skipped = append(report.Skipped, seed.Code)
			}
		}

		codes := make([]string, 0, len(seeds))
		for _, seed := range seeds {
			codes = append(codes, seed.Code)
			if seed.ParentCode != "" {
				codes = append(codes, seed.ParentCode)
			}
		}
		accounts, err := s.accountRepo.FindAccountsByCodes(txCtx, tenantID, uniqueStrings(codes))
		if err != nil {
			return fmt.Errorf("load seeded accounts: %w", err)
		}

		parentOf := make(map[string]string, len(accounts))
		for code, acc := range accounts {
			if acc.ParentAccountID == nil {
				continue
			}
			for pcode, p := range accounts {
				if p.AccountID == *acc.ParentAccountID {
					parentOf[code] = pcode
					break
				}
			}
		}

		pending := make([]domain.AccountSeed, 0, len(seeds))
		for _, seed := range seeds {
			if seed.ParentCode == "" || accounts[seed.Code].ParentAccountID != nil {
				continue
			}
			if _, ok := accounts[seed.ParentCode]; !ok {
				return apperrors.NewValidationError(apperrors.CodeUnknownAccounts,
					fmt.Sprintf("parent account %s of %s not found", seed.ParentCode, seed.Code)).
					WithDetail("missingAccountCodes", []string{seed.ParentCode})
			}
			parentOf[seed.Code] = seed.ParentCode
			pending = append(pending, seed)
		}

		for _, seed := range pending {
			level, err := levelOf(seed.Code, parentOf, accounts)
			if err != nil {
				return err
			}
			child, parent := accounts[seed.Code], accounts[seed.ParentCode]
			if err := s.accountRepo.SaveAccountParent(txCtx, child.AccountID, parent.AccountID, level, actorID, now); err != nil {
				return fmt.Errorf("link account %s to %s: %w", seed.Code, seed.ParentCode, err)
			}
			report.Linked = append(report.Linked, seed.Code)
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to seed chart of accounts", tenantAttr(tenantID))
		return nil, err
	}

	logger.Info("Chart of accounts seeded",
		tenantAttr(tenantID),
		slog.Int("created", len(report.Created)),
		slog.Int("skipped", len(report.Skipped)),
		slog.Int("linked", len(report.Linked)))
	return report, nil
}

func validateSeeds(seeds []domain.AccountSeed) error {
	seen := make(map[string]struct{}, len(seeds))
	for i, seed := range seeds {
		if strings.TrimSpace(seed.Code) == "" || strings.TrimSpace(seed.Name) == "" {
			return apperrors.NewValidationError(apperrors.CodeInvalidRequest,
				fmt.Sprintf("seed %d: code and name are required", i))
		}
		if !seed.Type.IsValid() {
			return apperrors.NewValidationError(apperrors.CodeInvalidRequest,
				fmt.Sprintf("seed %s: unknown account type %q", seed.Code, seed.Type))
		}
		if seed.ParentCode == seed.Code {
			return apperrors.NewValidationError(apperrors.CodeInvalidRequest,
				fmt.Sprintf("seed %s: account cannot be its own parent", seed.Code))
		}
		if _, dup := seen[seed.Code]; dup {
			return apperrors.NewValidationError(apperrors.CodeInvalidRequest,
				fmt.Sprintf("seed %s: duplicate code", seed.Code))
		}
		seen[seed.Code] = struct{}{}
	}
	return nil
}

// levelOf walks parent links up to the first account outside parentOf and adds
// that account's stored level. A cycle is a validation error.
func levelOf(code string, parentOf map[string]string, accounts map[string]domain.Account) (int, error) {
	level := 0
	visited := map[string]struct{}{code: {}}
	for cur := code; ; level++ {
		parent, ok := parentOf[cur]
		if !ok {
			return level + accounts[cur].Level, nil
		}
		if _, loop := visited[parent]; loop {
			return 0, apperrors.NewValidationError(apperrors.CodeInvalidRequest,
				fmt.Sprintf("account hierarchy cycle through %s", code))
		}
		visited[parent] = struct{}{}
		cur = parent
	}
}

func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	out := make([]string, 0, len(input))
	for _, s := range input {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
