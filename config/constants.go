package config

import "time"

const (
	ENV_PREFIX = "HMDB"

	DATA_DIR_NAME      = ".hmdb"
	CONFIG_FILE_NAME   = "config.json"
	DATABASE_FILE_NAME = "hmdb.db"

	DATA_URL          = "http://www.hmdb.ca/system/downloads/current/hmdb_metabolites.zip"
	DATA_ARCHIVE_NAME = "hmdb_metabolites.zip"
	DATA_MEMBER_NAME  = "hmdb_metabolites.xml"

	ONTOLOGY_URL_DOID  = "https://arty.scai.fraunhofer.de/artifactory/bel/namespace/disease-ontology/disease-ontology-20170725.belns"
	ONTOLOGY_URL_HP    = "https://arty.scai.fraunhofer.de/artifactory/bel/namespace/human-phenotype-ontology/human-phenotype-ontology-20170801.belns"
	ONTOLOGY_URL_MESHD = "https://arty.scai.fraunhofer.de/artifactory/bel/namespace/mesh-diseases/mesh-diseases-20170725.belns"

	BATCH_SIZE_POPULATE = 1_000
	BATCH_SIZE_INSERT   = 500
	DECOMPOSE_WORKERS   = 4

	HTTP_TIMEOUT_DOWNLOAD = 30 * time.Minute
	HTTP_TIMEOUT_ONTOLOGY = 2 * time.Minute

	SLOW_QUERY_THRESHOLD = 500 * time.Millisecond
)
