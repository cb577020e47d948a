// Package factory provides a small generic registry used to instantiate modules
// from configuration. Modules are defined by a type string and a map of raw
// settings. Factories decode the settings into typed structs and return the
// concrete implementation. Metrics sinks and decision log stores are both
// built through registries of this kind.
//
// Example usage:
//
//	reg := factory.NewRegistry[decisionlog.Store]()
//	reg.Register("jsonl", func(conf map[string]any) (decisionlog.Store, error) {
//	    var c struct{ Path string `json:"path"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return decisionlog.NewJSONLStore(c.Path)
//	})
//	s, err := reg.Create(factory.ModuleConfig{Type: "jsonl", Conf: map[string]any{"path": "decisions.jsonl"}})
package factory
