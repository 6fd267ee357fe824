package services

//nolint:depguard
import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"pipeline/src/utils"

	"github.com/Rhymond/go-money"
	"github.com/sirupsen/logrus"
)

var ErrRunInProgress = errors.New("a pipeline run is already in progress")

type RunStatus string

const (
	RunStatusSkipped   RunStatus = "skipped"
	RunStatusCompleted RunStatus = "completed"
)

// RunReport is the outcome of one pipeline invocation. A skipped run only
// carries the resolved date.
type RunReport struct {
	Status  RunStatus       `json:"status"`
	Date    time.Time       `json:"date"`
	Rows    int             `json:"rows"`
	Deleted []string        `json:"deleted,omitempty"`
	Summary *PersistSummary `json:"summary,omitempty"`
	Total   string          `json:"total,omitempty"`
}

func (r *RunReport) Ran() bool {
	return r != nil && r.Status == RunStatusCompleted
}

type PipelineServiceI interface {
	Run(ctx context.Context) (*RunReport, error)
}

type PipelineService struct {
	csvPath  string
	location *time.Location
	currency string
	clock    utils.Clock

	loader       PortfolioLoaderI
	synchronizer SyncServiceI
	enricher     EnrichServiceI
	persister    ValuationServiceI

	mutex sync.Mutex
}

func NewPipelineService(csvPath string, location *time.Location, currency string, clock utils.Clock,
	loader PortfolioLoaderI, synchronizer SyncServiceI, enricher EnrichServiceI, persister ValuationServiceI) *PipelineService {
	if location == nil {
		location = time.UTC
	}
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return &PipelineService{
		csvPath:      csvPath,
		location:     location,
		currency:     currency,
		clock:        clock,
		loader:       loader,
		synchronizer: synchronizer,
		enricher:     enricher,
		persister:    persister,
	}
}

// Run executes load, sync, enrich and persist for today's local date.
// Weekends are skipped without touching the file or the database.
// Overlapping calls are rejected with ErrRunInProgress.
func (p *PipelineService) Run(ctx context.Context) (*RunReport, error) {
	if !p.mutex.TryLock() {
		return nil, ErrRunInProgress
	}
	defer p.mutex.Unlock()

	logger := utils.LoggerFromContext(ctx)

	today := utils.LocalDate(p.clock, p.location)
	dateField := today.Format(utils.ShortDashDateLayout)
	if utils.IsWeekend(today) {
		logger.WithField("date", dateField).Info("weekend, skipping run")
		return &RunReport{Status: RunStatusSkipped, Date: today}, nil
	}

	logger.WithField("path", p.csvPath).Info("step 1: loading portfolio")
	df := p.loader.Load(ctx, p.csvPath)

	logger.Info("step 2: synchronizing tracked securities")
	deleted, err := p.synchronizer.Synchronize(ctx, df)
	if err != nil {
		return nil, fmt.Errorf("synchronize: %w", err)
	}

	logger.Info("step 3: enriching market prices")
	df = p.enricher.Enrich(ctx, df)

	logger.WithField("date", dateField).Info("step 4: persisting valuations")
	summary, err := p.persister.Persist(ctx, df, today)
	if err != nil {
		return nil, fmt.Errorf("persist: %w", err)
	}

	report := &RunReport{
		Status:  RunStatusCompleted,
		Date:    today,
		Rows:    df.Nrow(),
		Deleted: deleted,
		Summary: summary,
	}
	if summary != nil && p.currency != "" {
		report.Total = money.NewFromFloat(summary.TotalValue.InexactFloat64(), p.currency).Display()
	}

	logger.WithFields(logrus.Fields{
		"date":  dateField,
		"rows":  report.Rows,
		"total": report.Total,
	}).Info("pipeline finished")
	return report, nil
}
