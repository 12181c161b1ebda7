package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// CreateSample creates a sample configuration file.
func CreateSample(path string) error {
	dataDir := DefaultDataDir()
	sample := Config{
		DataDir:  dataDir,
		LogLevel: LogLevelInfo,
		Database: Database{
			Sqlite:           filepath.Join(dataDir, DATABASE_FILE_NAME),
			Postgres:         []string{},
			PostgresReadOnly: []string{},
		},
		Source: Source{
			Url:     []string{DATA_URL},
			Archive: DATA_ARCHIVE_NAME,
			Member:  DATA_MEMBER_NAME,
		},
		Ontology: Ontology{
			DiseaseOntology:        ONTOLOGY_URL_DOID,
			HumanPhenotypeOntology: ONTOLOGY_URL_HP,
			MeSHDiseases:           ONTOLOGY_URL_MESHD,
		},
		Populate: Populate{
			BatchSize:   BATCH_SIZE_POPULATE,
			Workers:     DECOMPOSE_WORKERS,
			MapDiseases: true,
		},
	}
	raw, err := json.MarshalIndent(sample, "", "    ")
	if err != nil {
		return errors.Join(errors.New("could not marshal sample config"), err)
	}
	err = os.WriteFile(path, raw, 0600)
	if err != nil {
		return errors.Join(errors.New("could not write sample config file"), err)
	}
	return nil
}
