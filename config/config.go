package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	DataDir  string   `json:"data_dir"`
	LogLevel LogLevel `json:"log_level"`
	Database Database `json:"database"`
	Source   Source   `json:"source"`
	Ontology Ontology `json:"ontology"`
	Populate Populate `json:"populate"`
}

type Source struct {
	Url     SingleOrSlice[string] `json:"url"`
	Archive string                `json:"archive"`
	Member  string                `json:"member"`
}

type Ontology struct {
	DiseaseOntology        string `json:"disease_ontology"`
	HumanPhenotypeOntology string `json:"human_phenotype_ontology"`
	MeSHDiseases           string `json:"mesh_diseases"`
}

type Populate struct {
	BatchSize   int  `json:"batch_size"`
	Workers     int  `json:"workers"`
	MapDiseases bool `json:"map_diseases"`
}

// NewViper returns a viper instance with defaults applied and HMDB_* environment overrides enabled.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(ENV_PREFIX)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("data_dir", DefaultDataDir())
	v.SetDefault("log_level", string(LogLevelInfo))
	v.SetDefault("database.connection", "")
	v.SetDefault("database.sqlite", "")
	v.SetDefault("database.postgres", []string{})
	v.SetDefault("database.postgres_readonly", []string{})
	v.SetDefault("database.mysql", "")
	v.SetDefault("source.url", []string{DATA_URL})
	v.SetDefault("source.archive", DATA_ARCHIVE_NAME)
	v.SetDefault("source.member", DATA_MEMBER_NAME)
	v.SetDefault("ontology.disease_ontology", ONTOLOGY_URL_DOID)
	v.SetDefault("ontology.human_phenotype_ontology", ONTOLOGY_URL_HP)
	v.SetDefault("ontology.mesh_diseases", ONTOLOGY_URL_MESHD)
	v.SetDefault("populate.batch_size", BATCH_SIZE_POPULATE)
	v.SetDefault("populate.workers", DECOMPOSE_WORKERS)
	v.SetDefault("populate.map_diseases", true)
	return v
}

// ReadFile merges a configuration file into v. When path is empty the
// data directory's config.json is used if it exists.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		path = filepath.Join(v.GetString("data_dir"), CONFIG_FILE_NAME)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil
		}
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %q: %w", path, err)
	}
	return nil
}

// Load resolves the configuration held by v.
func Load(v *viper.Viper) Config {
	cfg := Config{
		DataDir:  v.GetString("data_dir"),
		LogLevel: LogLevel(v.GetString("log_level")),
		Database: Database{
			Connection:       v.GetString("database.connection"),
			Sqlite:           v.GetString("database.sqlite"),
			Postgres:         v.GetStringSlice("database.postgres"),
			PostgresReadOnly: v.GetStringSlice("database.postgres_readonly"),
			MySQL:            v.GetString("database.mysql"),
		},
		Source: Source{
			Url:     v.GetStringSlice("source.url"),
			Archive: v.GetString("source.archive"),
			Member:  v.GetString("source.member"),
		},
		Ontology: Ontology{
			DiseaseOntology:        v.GetString("ontology.disease_ontology"),
			HumanPhenotypeOntology: v.GetString("ontology.human_phenotype_ontology"),
			MeSHDiseases:           v.GetString("ontology.mesh_diseases"),
		},
		Populate: Populate{
			BatchSize:   v.GetInt("populate.batch_size"),
			Workers:     v.GetInt("populate.workers"),
			MapDiseases: v.GetBool("populate.map_diseases"),
		},
	}
	if cfg.Database.empty() {
		cfg.Database.Sqlite = filepath.Join(cfg.DataDir, DATABASE_FILE_NAME)
	}
	return cfg
}

// DefaultDataDir is ~/.hmdb, or .hmdb in the working directory when no home is available.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DATA_DIR_NAME
	}
	return filepath.Join(home, DATA_DIR_NAME)
}
