package main

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"

	"gopkg.in/yaml.v2"

	"github.com/jcodybaker/wgbridge/pkg/wireguard"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
)

func validateOutput(format string) error {
	switch format {
	case outputJSON, outputYAML:
		return nil
	default:
		return fmt.Errorf("--output: unknown format %q; valid: %s,%s", format, outputJSON, outputYAML)
	}
}

func writeOutput(w io.Writer, format string, v interface{}) error {
	switch format {
	case outputYAML:
		b, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		_, err = w.Write(b)
		return err
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}

// readInterfaceConfig loads an interface config from a YAML or JSON file.
func readInterfaceConfig(path string) (*wireguard.Interface, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parseInterfaceConfig(b)
}

func parseInterfaceConfig(b []byte) (*wireguard.Interface, error) {
	cfg := &wireguard.Interface{}
	if err := yaml.UnmarshalStrict(b, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}
