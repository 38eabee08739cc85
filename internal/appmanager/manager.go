package appmanager

import (
	"database/sql"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"gopkg.in/yaml.v3"

	"EnerTrack/api/billing"
	"EnerTrack/api/energy"
	"EnerTrack/api/invoices"
	"EnerTrack/api/powerquality"
	"EnerTrack/api/pwmreport"
	"EnerTrack/api/rectifiers"
	"EnerTrack/api/registry"
	"EnerTrack/api/reports"
	"EnerTrack/internal/jobs"
	"EnerTrack/internal/logger"
	"EnerTrack/internal/serviceiface"
)

var db *sql.DB
var pgxPool *pgxpool.Pool

func SetDB(database *sql.DB) {
	db = database
}

func SetPgxPool(pool *pgxpool.Pool) {
	pgxPool = pool
}

func GetDB() *sql.DB {
	return db
}

func GetPgxPool() *pgxpool.Pool {
	return pgxPool
}

// buildStores wires every domain store once; the HTTP surface and the
// inbox importer share them. Billing runs on the pgx pool for its batch
// copy path, the rest on database/sql.
func buildStores() reports.Stores {
	return reports.Stores{
		Registry:     registry.NewPgStore(db),
		Billing:      billing.NewPgStore(pgxPool),
		Energy:       energy.NewPgStore(db),
		PowerQuality: powerquality.NewPgStore(db),
		PWM:          pwmreport.NewPgStore(db),
		Rectifiers:   rectifiers.NewPgStore(db),
		Invoices:     invoices.NewPgStore(db),
		Tasks:        invoices.NewTaskRunner(),
	}
}

var serviceConstructors = map[string]func(map[string]interface{}) serviceiface.Service{
	"logger": func(cfg map[string]interface{}) serviceiface.Service {
		return logger.NewLoggerService(cfg)
	},
	"reports": func(cfg map[string]interface{}) serviceiface.Service {
		return reports.NewReportsService(cfg, buildStores())
	},
	"jobs": func(cfg map[string]interface{}) serviceiface.Service {
		s := buildStores()
		inbox := &jobs.Inbox{
			Registry:     s.Registry,
			Billing:      s.Billing,
			Energy:       s.Energy,
			PowerQuality: s.PowerQuality,
			PWM:          s.PWM,
			Rectifiers:   s.Rectifiers,
			Invoices:     s.Invoices,
		}
		return jobs.NewCronService(cfg, inbox)
	},
}

type AppManager struct {
	services []serviceiface.Service
	mu       sync.Mutex
}

func NewAppManager() *AppManager {
	return &AppManager{services: make([]serviceiface.Service, 0)}
}

func (am *AppManager) RegisterService(s serviceiface.Service) {
	am.mu.Lock()
	defer am.mu.Unlock()
	am.services = append(am.services, s)
}

func (am *AppManager) StartAll() error {
	am.mu.Lock()
	defer am.mu.Unlock()
	for _, service := range am.services {
		fmt.Println("Starting service:", service.Name())
		if err := service.Start(); err != nil {
			return fmt.Errorf("failed to start service %s: %w", service.Name(), err)
		}
	}
	return nil
}

func (am *AppManager) StopAll() error {
	am.mu.Lock()
	defer am.mu.Unlock()
	for i := len(am.services) - 1; i >= 0; i-- {
		svc := am.services[i]
		if err := svc.Stop(); err != nil {
			return fmt.Errorf("failed to stop service %s: %w", svc.Name(), err)
		}
	}
	return nil
}

func (am *AppManager) GetServiceByName(name string) serviceiface.Service {
	for _, svc := range am.services {
		if svc.Name() == name {
			return svc
		}
	}
	return nil
}

// ------------------- YAML CONFIG -------------------

type ServiceSequencer struct {
	Services []ServiceConfig `yaml:"services"`
}

type ServiceConfig struct {
	Name       string                 `yaml:"name"`
	StartOrder int                    `yaml:"start_order"`
	Config     map[string]interface{} `yaml:"config"`
}

func LoadServiceSequence(path string) ([]ServiceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var seq ServiceSequencer
	if err := yaml.Unmarshal(data, &seq); err != nil {
		return nil, err
	}
	sort.Slice(seq.Services, func(i, j int) bool {
		return seq.Services[i].StartOrder < seq.Services[j].StartOrder
	})
	return seq.Services, nil
}

func (am *AppManager) AutoRegisterServices(configs []ServiceConfig) {
	for _, svc := range configs {
		constructor, ok := serviceConstructors[svc.Name]
		if !ok {
			continue
		}
		service := constructor(svc.Config)
		am.RegisterService(service)
		if l, ok := service.(*logger.LoggerService); ok {
			logger.SetGlobalLogger(l)
		}
	}
}
