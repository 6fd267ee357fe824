package services

//nolint:depguard
import (
	"context"
	"fmt"
	"sort"
	"strings"

	"pipeline/src/models"
	"pipeline/src/repositories"
	"pipeline/src/utils"

	"github.com/go-gota/gota/dataframe"
	"gorm.io/gorm"
)

type SyncServiceI interface {
	Synchronize(ctx context.Context, df dataframe.DataFrame) ([]string, error)
}

type SyncService struct {
	securityRepository repositories.SecurityRepository
}

func NewSyncService(securityRepository repositories.SecurityRepository) *SyncService {
	return &SyncService{
		securityRepository: securityRepository,
	}
}

// Synchronize deletes every tracked security whose ticker, compared
// case-insensitively, is absent from df. It returns the deleted tickers.
// An empty or ticker-less portfolio never deletes anything.
func (s *SyncService) Synchronize(ctx context.Context, df dataframe.DataFrame) ([]string, error) {
	logger := utils.LoggerFromContext(ctx)

	if utils.IsEmpty(df) || !utils.HasCol(df, models.ColTicker) {
		logger.Warn("empty or invalid portfolio, skipping synchronization to avoid deleting tracked securities")
		return nil, nil
	}

	inPortfolio := map[string]bool{}
	for _, ticker := range df.Col(models.ColTicker).Records() {
		inPortfolio[strings.ToLower(strings.TrimSpace(ticker))] = true
	}

	var deleted []string
	err := s.securityRepository.Transaction(ctx, func(tx *gorm.DB) error {
		tracked, err := s.securityRepository.GetAll(ctx, tx)
		if err != nil {
			return err
		}

		var ids []uint
		for _, security := range tracked {
			if !inPortfolio[strings.ToLower(security.Ticker)] {
				ids = append(ids, security.ID)
				deleted = append(deleted, security.Ticker)
			}
		}
		if len(ids) == 0 {
			return nil
		}
		return s.securityRepository.DeleteByIDs(ctx, ids, tx)
	})
	if err != nil {
		return nil, fmt.Errorf("synchronization failed: %w", err)
	}

	sort.Strings(deleted)
	if len(deleted) > 0 {
		logger.WithField("tickers", deleted).Info("removed securities no longer in portfolio")
	}
	return deleted, nil
}
