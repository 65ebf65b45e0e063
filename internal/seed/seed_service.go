package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/Mimo68/Gestion-brigade/internal/employee"
	"github.com/Mimo68/Gestion-brigade/internal/shared/cache"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// sampleNames is the demo roster loaded by the init endpoint.
var sampleNames = []string{
	"Jean Dupont", "Marie Martin", "Pierre Durand", "Sophie Bernard", "Michel Dubois",
	"Isabelle Moreau", "François Laurent", "Catherine Simon", "Daniel Thomas", "Nathalie Robert",
	"Alain Petit", "Sylvie Roux", "Philippe David", "Brigitte Bertrand", "Gérard Morel",
	"Véronique Fournier", "Olivier Girard", "Monique Bonnet", "André François", "Christine Mercier",
	"Didier Garnier", "Françoise Fabre", "Thierry Rousseau", "Martine Vincent", "Bruno Lopez",
	"Chantal Garcia", "Patrick Rodriguez", "Annie Blanc", "Claude Martinez", "Joëlle Gonzalez",
	"Marc Sanchez", "Dominique Muller", "Yves Richard", "Nicole Leroy", "Gilbert King",
	"Jacqueline Michel", "Henri Petit", "Denise Garcia", "Roger Bernard", "Yvette Roux",
}

var contractRotation = []string{
	employee.ContractCDI,
	employee.ContractCDD,
	employee.ContractArt60,
}

type Service interface {
	InitSampleData(ctx context.Context) (string, error)
}

type service struct {
	employees    employee.Repository
	rdb          *redis.Client
	defaultHours int
	logger       *zap.Logger
}

func NewService(employees employee.Repository, rdb *redis.Client, defaultHours int, logger ...*zap.Logger) Service {
	l := zap.L().Named("seed.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("seed.service")
	}
	return &service{employees: employees, rdb: rdb, defaultHours: defaultHours, logger: l}
}

// InitSampleData loads the demo roster. It is a no-op when any employee
// already exists, so the endpoint is safe to call repeatedly.
func (s *service) InitSampleData(ctx context.Context) (string, error) {
	count, err := s.employees.Count(ctx)
	if err != nil {
		s.logger.Error("count employees failed", zap.Error(err))
		return "", err
	}
	if count > 0 {
		return "sample data already initialized", nil
	}

	now := time.Now().UTC()
	employees := make([]employee.Employee, 0, len(sampleNames))
	for i, name := range sampleNames {
		contract := contractRotation[i%3]
		startDate := time.Date(2020+(i%5), time.Month((i%12)+1), (i%28)+1, 0, 0, 0, 0, time.UTC)

		employees = append(employees, employee.Employee{
			ID:              uuid.New(),
			Name:            name,
			StartDate:       startDate,
			ContractType:    contract,
			TotalLeaveHours: employee.DefaultLeaveHours(contract, s.defaultHours),
			UsedLeaveHours:  (i % 10) * 8,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}

	if err := s.employees.CreateBatch(ctx, employees); err != nil {
		s.logger.Error("seed batch insert failed", zap.Error(err))
		return "", err
	}

	if s.rdb != nil {
		if err := s.rdb.Del(ctx, cache.DashboardStatsKey).Err(); err != nil && err != redis.Nil {
			s.logger.Warn("stats cache invalidation failed", zap.Error(err))
		}
	}

	s.logger.Info("sample data initialized", zap.Int("employees", len(employees)))
	return fmt.Sprintf("%d employees added", len(employees)), nil
}
