package keybinds

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config represents the user's keybinding overrides (keybinds.json).
// Each section maps key -> action name.
type Config struct {
	Version  string            `json:"version"`
	Global   map[string]string `json:"global,omitempty"`
	Terminal map[string]string `json:"terminal,omitempty"`
	Tree     map[string]string `json:"tree,omitempty"`
	History  map[string]string `json:"history,omitempty"`
	Confirm  map[string]string `json:"confirm,omitempty"`
	Help     map[string]string `json:"help,omitempty"`
}

// LoadConfig loads keybinding configuration from a JSON file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("invalid keybinds.json format: %w", err)
	}

	return &config, nil
}

// ApplyConfig applies user overrides on top of a registry. Unknown
// action names are rejected so a typo never silently unbinds a key.
func ApplyConfig(registry *Registry, config *Config) error {
	contextMappings := map[Context]map[string]string{
		ContextGlobal:   config.Global,
		ContextTerminal: config.Terminal,
		ContextTree:     config.Tree,
		ContextHistory:  config.History,
		ContextConfirm:  config.Confirm,
		ContextHelp:     config.Help,
	}

	for context, bindings := range contextMappings {
		for key, actionStr := range bindings {
			action := Action(actionStr)
			if !IsValidAction(action) {
				return fmt.Errorf("unknown action %q for key %q in context %q", actionStr, key, context)
			}
			registry.Register(context, key, action)
		}
	}

	return nil
}

// LoadOrDefault builds the effective registry: defaults plus any user
// overrides from path. A missing file yields the defaults.
func LoadOrDefault(path string) (*Registry, error) {
	registry := NewDefaultRegistry()

	config, err := LoadConfig(path)
	if err != nil {
		if os.IsNotExist(err) {
			return registry, nil
		}
		return nil, err
	}

	if err := ApplyConfig(registry, config); err != nil {
		return nil, err
	}
	return registry, nil
}
