package repository

import (
	"fmt"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

const (
	DriverMySQL  = "mysql"
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// Factory builds the repository set for the configured storage driver once.
type Factory struct {
	driver  string
	db      *gorm.DB
	mongoDB *mongo.Database
	repos   *Repositories
	once    sync.Once
}

// NewFactory creates a factory for the relational store
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{driver: DriverMySQL, db: db}
}

// NewMongoFactory creates a factory for the document store
func NewMongoFactory(db *mongo.Database) *Factory {
	return &Factory{driver: DriverMongo, mongoDB: db}
}

// NewMemoryFactory creates a factory for the in-process store
func NewMemoryFactory() *Factory {
	return &Factory{driver: DriverMemory}
}

// Driver returns the storage driver this factory serves
func (f *Factory) Driver() string {
	return f.driver
}

// GetRepositories returns the repository set, creating it on first use
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		switch f.driver {
		case DriverMongo:
			f.repos = NewMongoRepositories(f.mongoDB)
		case DriverMemory:
			f.repos = NewMemoryRepositories()
		default:
			f.repos = NewRepositories(f.db)
		}
	})
	return f.repos
}

// GetAccountRepository returns the account repository instance
func (f *Factory) GetAccountRepository() AccountRepository {
	return f.GetRepositories().Account
}

// GetApplicationRepository returns the application repository instance
func (f *Factory) GetApplicationRepository() ApplicationRepository {
	return f.GetRepositories().Application
}

// ParseDriver validates a STORE_DRIVER value.
func ParseDriver(raw string) (string, error) {
	switch d := strings.ToLower(strings.TrimSpace(raw)); d {
	case "", DriverMySQL:
		return DriverMySQL, nil
	case DriverMongo, "mongodb":
		return DriverMongo, nil
	case DriverMemory:
		return DriverMemory, nil
	default:
		return "", fmt.Errorf("unknown store driver %q", raw)
	}
}
