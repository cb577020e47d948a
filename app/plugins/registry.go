package plugins

import (
	"github.com/MathiasVDS1/ProjectManagement/core/decisionlog"
	"github.com/MathiasVDS1/ProjectManagement/core/factory"
)

var stores = factory.NewRegistry[decisionlog.Store]()

// RegisterStore adds a decision log store factory identified by name.
func RegisterStore(name string, f factory.Factory[decisionlog.Store]) error {
	return stores.Register(name, f)
}

// NewStore builds the configured decision log store. An empty type selects
// the no-op store.
func NewStore(cfg factory.ModuleConfig) (decisionlog.Store, error) {
	if cfg.Type == "" {
		return decisionlog.NopStore{}, nil
	}
	return stores.Create(cfg)
}
