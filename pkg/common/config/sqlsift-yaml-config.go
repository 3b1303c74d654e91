package config

import (
	"errors"
	"fmt"
	"gopkg.in/yaml.v3"
	"os"
)

const SqlsiftYamlFile = ".sqlsift.yml"

// SqlsiftConfig is the main structure which is serialized from/to .sqlsift.yml
// files. Flags always take precedence over it.
type SqlsiftConfig struct {
	// OutputDir is the default destination for extracted CSV files.
	OutputDir string `yaml:"outputDir"`
	// Tables restricts extraction to the named tables when no --tables flag
	// is given.
	Tables []string           `yaml:"tables"`
	Mysql  SqlsiftMysqlConfig `yaml:"mysql"`
}

type SqlsiftMysqlConfig struct {
	// Dsn is the go-sql-driver DSN used by `sqlsift load`.
	Dsn string `yaml:"dsn"`
}

func ReadFromYaml() (SqlsiftConfig, error) {
	var cfg SqlsiftConfig
	file, err := os.ReadFile(SqlsiftYamlFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// we return the empty config
			return cfg, nil
		}
		return cfg, err
	}
	err = yaml.Unmarshal(file, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("malformed YAML in %s - delete the file and try again: %w", SqlsiftYamlFile, err)
	}
	return cfg, nil
}

func WriteToFile(cfg SqlsiftConfig) error {
	bytes, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config cannot be serialized: %w", err)
	}

	err = os.WriteFile(SqlsiftYamlFile, bytes, 0644)
	if err != nil {
		return fmt.Errorf("cannot write config file %s: %w", SqlsiftYamlFile, err)
	}

	return nil
}
