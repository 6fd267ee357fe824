package services

//nolint:depguard
import (
	"context"
	"errors"
	"fmt"
	"time"

	"pipeline/src/models"
	"pipeline/src/repositories"
	"pipeline/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ValuationServiceI interface {
	Persist(ctx context.Context, df dataframe.DataFrame, asOf time.Time) (*PersistSummary, error)
	GetValuations(ctx context.Context, date time.Time) ([]models.Valuation, error)
}

// PersistSummary describes what a Persist call wrote.
type PersistSummary struct {
	SecuritiesCreated int             `json:"securitiesCreated"`
	ValuationsWritten int             `json:"valuationsWritten"`
	TotalValue        decimal.Decimal `json:"totalValue"`
}

type ValuationService struct {
	securityRepository  repositories.SecurityRepository
	valuationRepository repositories.ValuationRepository
}

func NewValuationService(securityRepository repositories.SecurityRepository, valuationRepository repositories.ValuationRepository) *ValuationService {
	return &ValuationService{
		securityRepository:  securityRepository,
		valuationRepository: valuationRepository,
	}
}

// Persist records one valuation per row for asOf, creating tracked
// securities on first sighting. Re-running for the same date overwrites the
// previous values. All writes share one transaction.
func (s *ValuationService) Persist(ctx context.Context, df dataframe.DataFrame, asOf time.Time) (*PersistSummary, error) {
	summary := &PersistSummary{TotalValue: decimal.Zero}
	if utils.IsEmpty(df) {
		return summary, nil
	}

	rows, err := RowsFromFrame(df)
	if err != nil {
		return nil, err
	}

	date := utils.CalendarDate(asOf)
	err = s.securityRepository.Transaction(ctx, func(tx *gorm.DB) error {
		for _, row := range rows {
			if row.Ticker == "" {
				utils.LoggerFromContext(ctx).Warn("skipping portfolio row without ticker")
				continue
			}
			security, err := s.securityRepository.GetByTicker(ctx, row.Ticker, tx)
			if errors.Is(err, repositories.ErrSecurityNotFound) {
				security = &models.Security{Ticker: row.Ticker, CompanyName: row.CompanyName}
				err = s.securityRepository.Create(ctx, security, tx)
				if err != nil {
					return err
				}
				summary.SecuritiesCreated++
			} else if err != nil {
				return err
			}

			valuation := &models.Valuation{
				SecurityID: security.ID,
				Date:       date,
				Value:      row.Value(),
			}
			if err := s.valuationRepository.Upsert(ctx, valuation, tx); err != nil {
				return err
			}
			summary.ValuationsWritten++
			summary.TotalValue = summary.TotalValue.Add(valuation.Value)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("persisting valuations for %s: %w", date.Format(utils.ShortDashDateLayout), err)
	}

	utils.LoggerFromContext(ctx).WithFields(logrus.Fields{
		"date":    date.Format(utils.ShortDashDateLayout),
		"created": summary.SecuritiesCreated,
		"written": summary.ValuationsWritten,
		"total":   summary.TotalValue.StringFixed(2),
	}).Info("valuations persisted")
	return summary, nil
}

func (s *ValuationService) GetValuations(ctx context.Context, date time.Time) ([]models.Valuation, error) {
	return s.valuationRepository.GetByDate(ctx, utils.CalendarDate(date))
}
