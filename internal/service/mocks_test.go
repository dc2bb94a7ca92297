package service

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/BMSihlas/dataops-greenflow-sage/internal/model"
	"github.com/BMSihlas/dataops-greenflow-sage/internal/repository"
)

type mockSensorRepo struct {
	replaceAllFunc      func(ctx context.Context, records []model.SensorRecord) error
	findRecentFunc      func(ctx context.Context, limit int, company, sector string) ([]model.SensorRecord, error)
	findPageFunc        func(ctx context.Context, q repository.PageQuery) ([]model.CompanyRow, error)
	countFunc           func(ctx context.Context, sector string) (int, error)
	distinctSectorsFunc func(ctx context.Context) ([]string, error)
	findAllFunc         func(ctx context.Context) ([]model.SensorRecord, error)
}

func (m *mockSensorRepo) ReplaceAll(ctx context.Context, records []model.SensorRecord) error {
	if m.replaceAllFunc != nil {
		return m.replaceAllFunc(ctx, records)
	}
	return nil
}

func (m *mockSensorRepo) FindRecent(ctx context.Context, limit int, company, sector string) ([]model.SensorRecord, error) {
	if m.findRecentFunc != nil {
		return m.findRecentFunc(ctx, limit, company, sector)
	}
	return nil, nil
}

func (m *mockSensorRepo) FindPage(ctx context.Context, q repository.PageQuery) ([]model.CompanyRow, error) {
	if m.findPageFunc != nil {
		return m.findPageFunc(ctx, q)
	}
	return nil, nil
}

func (m *mockSensorRepo) Count(ctx context.Context, sector string) (int, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, sector)
	}
	return 0, nil
}

func (m *mockSensorRepo) DistinctSectors(ctx context.Context) ([]string, error) {
	if m.distinctSectorsFunc != nil {
		return m.distinctSectorsFunc(ctx)
	}
	return nil, nil
}

func (m *mockSensorRepo) FindAll(ctx context.Context) ([]model.SensorRecord, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return nil, nil
}

type mockInsightRepo struct {
	replaceAllFunc   func(ctx context.Context, insights []model.SectorInsight) error
	findAllFunc      func(ctx context.Context) ([]model.SectorInsight, error)
	findBySectorFunc func(ctx context.Context, sector string) (*model.SectorInsight, error)
}

func (m *mockInsightRepo) ReplaceAll(ctx context.Context, insights []model.SectorInsight) error {
	if m.replaceAllFunc != nil {
		return m.replaceAllFunc(ctx, insights)
	}
	return nil
}

func (m *mockInsightRepo) FindAll(ctx context.Context) ([]model.SectorInsight, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return nil, nil
}

func (m *mockInsightRepo) FindBySector(ctx context.Context, sector string) (*model.SectorInsight, error) {
	if m.findBySectorFunc != nil {
		return m.findBySectorFunc(ctx, sector)
	}
	return nil, nil
}

type mockUserRepo struct {
	findByUsernameFunc  func(ctx context.Context, username string) (*model.UserAccount, error)
	createFunc          func(ctx context.Context, params model.CreateUserParams) (*model.UserAccount, error)
	updateLastLoginFunc func(ctx context.Context, username string, lastLogin int64) error
	countFunc           func(ctx context.Context) (int, error)
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*model.UserAccount, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return nil, nil
}

func (m *mockUserRepo) Create(ctx context.Context, params model.CreateUserParams) (*model.UserAccount, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, params)
	}
	return nil, nil
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, username string, lastLogin int64) error {
	if m.updateLastLoginFunc != nil {
		return m.updateLastLoginFunc(ctx, username, lastLogin)
	}
	return nil
}

func (m *mockUserRepo) Count(ctx context.Context) (int, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockUserRepo) WithTx(tx *sqlx.Tx) repository.UserRepository {
	return m
}
