package schema

import "fmt"

// Config is the full CMS configuration: the collection definitions plus an
// ordered list of plugins. Built once and treated as immutable after the
// plugins have been applied.
type Config struct {
	Collections []Collection
	Plugins     []Plugin
}

// Plugin is a pure transformation over the configuration, applied once at
// startup in declaration order. Plugins that need HTTP routes register them
// through the server as a separate explicit step.
type Plugin func(Config) Config

// ApplyPlugins runs the configured plugins in order and returns the
// resulting configuration with the plugin list cleared.
func ApplyPlugins(cfg Config) Config {
	for _, plugin := range cfg.Plugins {
		cfg = plugin(cfg)
	}
	cfg.Plugins = nil
	return cfg
}

// Validate checks the configuration for structural mistakes: duplicate
// collection or field names, select fields without options, relation fields
// without a known target collection, and unsupported field types.
func (cfg Config) Validate() error {
	names := make(map[string]bool, len(cfg.Collections))
	for _, coll := range cfg.Collections {
		if coll.Name == "" {
			return fmt.Errorf("collection with empty name")
		}
		if names[coll.Name] {
			return fmt.Errorf("duplicate collection %q", coll.Name)
		}
		names[coll.Name] = true
	}

	for _, coll := range cfg.Collections {
		fieldNames := make(map[string]bool, len(coll.Fields))
		for _, field := range coll.Fields {
			if field.Name == "" {
				return fmt.Errorf("collection %q: field with empty name", coll.Name)
			}
			if fieldNames[field.Name] {
				return fmt.Errorf("collection %q: duplicate field %q", coll.Name, field.Name)
			}
			fieldNames[field.Name] = true

			if !field.Type.Valid() {
				return fmt.Errorf("collection %q: field %q has unsupported type %q", coll.Name, field.Name, field.Type)
			}
			if field.Type == FieldSelect && len(field.Options) == 0 {
				return fmt.Errorf("collection %q: select field %q has no options", coll.Name, field.Name)
			}
			if field.Type == FieldRelation {
				if field.RelationTo == "" {
					return fmt.Errorf("collection %q: relation field %q has no target collection", coll.Name, field.Name)
				}
				if !names[field.RelationTo] {
					return fmt.Errorf("collection %q: relation field %q targets unknown collection %q", coll.Name, field.Name, field.RelationTo)
				}
			}
			if field.Multiple && field.Type != FieldSelect && field.Type != FieldRelation {
				return fmt.Errorf("collection %q: field %q cannot be multiple", coll.Name, field.Name)
			}
		}
	}

	return nil
}
