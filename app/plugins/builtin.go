package plugins

import (
	"github.com/MathiasVDS1/ProjectManagement/core/decisionlog"
	"github.com/MathiasVDS1/ProjectManagement/core/factory"
)

type storeConf struct {
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

func init() {
	_ = RegisterStore("jsonl", func(conf map[string]any) (decisionlog.Store, error) {
		var c storeConf
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return decisionlog.NewJSONLStore(c.Path)
	})

	_ = RegisterStore("rotating", func(conf map[string]any) (decisionlog.Store, error) {
		var c storeConf
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return decisionlog.NewRotatingJSONLStore(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays)
	})

	_ = RegisterStore("sqlite", func(conf map[string]any) (decisionlog.Store, error) {
		var c storeConf
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return decisionlog.NewSQLiteStore(c.Path)
	})
}
