package database

// Metabolite is one HMDB metabolite record. Accession is the natural key.
type Metabolite struct {
	ID                          uint    `gorm:"primarykey"`
	Accession                   string  `gorm:"size:32;index;not null"`
	Version                     *string `gorm:"size:32"`
	CreationDate                *string `gorm:"size:64"`
	UpdateDate                  *string `gorm:"size:64"`
	Status                      *string `gorm:"size:64"`
	Name                        *string
	Description                 TextField
	ChemicalFormula             *string `gorm:"size:255"`
	AverageMolecularWeight      *float64
	MonoisotopicMolecularWeight *float64
	IupacName                   *string
	TraditionalIupac            *string
	CasRegistryNumber           *string `gorm:"size:64"`
	Smiles                      *string
	Inchi                       *string
	Inchikey                    *string `gorm:"size:64"`
	State                       *string `gorm:"size:32"`
	SynthesisReference          *string
	ChemspiderID                *string `gorm:"column:chemspider_id;size:64"`
	DrugbankID                  *string `gorm:"column:drugbank_id;size:64"`
	FoodbID                     *string `gorm:"column:foodb_id;size:64"`
	PubchemCompoundID           *string `gorm:"column:pubchem_compound_id;size:64"`
	PdbID                       *string `gorm:"column:pdb_id;size:64"`
	ChebiID                     *string `gorm:"column:chebi_id;size:64"`
	PhenolExplorerCompoundID    *string `gorm:"column:phenol_explorer_compound_id;size:64"`
	KnapsackID                  *string `gorm:"column:knapsack_id;size:64"`
	KeggID                      *string `gorm:"column:kegg_id;size:64"`
	BiocycID                    *string `gorm:"column:biocyc_id;size:255"`
	BiggID                      *string `gorm:"column:bigg_id;size:64"`
	WikipediaID                 *string `gorm:"column:wikipedia_id;size:255"`
	Nugowiki                    *string `gorm:"size:255"`
	Metagene                    *string `gorm:"size:255"`
	MetlinID                    *string `gorm:"column:metlin_id;size:64"`
	HetID                       *string `gorm:"column:het_id;size:64"`
	VmhID                       *string `gorm:"column:vmh_id;size:64"`
	FbontoID                    *string `gorm:"column:fbonto_id;size:64"`

	SecondaryAccessions []SecondaryAccession
	Synonyms            []Synonym
	Biofluids           []MetaboliteBiofluid
	Tissues             []MetaboliteTissue
	CellularLocations   []MetaboliteCellularLocation
	Biofunctions        []MetaboliteBiofunction
	Pathways            []MetabolitePathway
	Proteins            []MetaboliteProtein
	References          []MetaboliteReference
	Diseases            []MetaboliteDiseaseReference
}

type SecondaryAccession struct {
	ID           uint   `gorm:"primarykey"`
	MetaboliteID uint   `gorm:"index;not null"`
	Accession    string `gorm:"size:32;not null"`
}

type Synonym struct {
	ID           uint   `gorm:"primarykey"`
	MetaboliteID uint   `gorm:"index;not null"`
	Synonym      string `gorm:"not null"`
}

type Biofluid struct {
	ID          uint   `gorm:"primarykey"`
	Name        string `gorm:"size:255;uniqueIndex;not null"`
	Metabolites []MetaboliteBiofluid
}

type Tissue struct {
	ID          uint   `gorm:"primarykey"`
	Name        string `gorm:"size:255;uniqueIndex;not null"`
	Metabolites []MetaboliteTissue
}

type CellularLocation struct {
	ID          uint   `gorm:"primarykey"`
	Name        string `gorm:"size:255;uniqueIndex;not null"`
	Metabolites []MetaboliteCellularLocation
}

type Biofunction struct {
	ID          uint   `gorm:"primarykey"`
	Name        string `gorm:"size:255;uniqueIndex;not null"`
	Metabolites []MetaboliteBiofunction
}

type Pathway struct {
	ID          uint    `gorm:"primarykey"`
	Name        string  `gorm:"size:255;uniqueIndex;not null"`
	SmpdbID     *string `gorm:"column:smpdb_id;size:64"`
	KeggMapID   *string `gorm:"column:kegg_map_id;size:64"`
	Metabolites []MetabolitePathway
}

type Protein struct {
	ID               uint   `gorm:"primarykey"`
	ProteinAccession string `gorm:"size:32;uniqueIndex;not null"`
	Name             *string
	UniprotID        *string `gorm:"column:uniprot_id;size:32;index"`
	GeneName         *string `gorm:"size:64"`
	ProteinType      *string `gorm:"size:64"`
	Metabolites      []MetaboliteProtein
}

// Reference is a citation. ReferenceText is the natural key; it is unbounded
// text, so uniqueness is kept by the populator rather than an index.
type Reference struct {
	ID               uint    `gorm:"primarykey"`
	ReferenceText    string  `gorm:"type:text;not null"`
	PubmedID         *string `gorm:"column:pubmed_id;size:32;index"`
	Metabolites      []MetaboliteReference
	DiseaseCitations []MetaboliteDiseaseReference
}

// Disease carries the cross references resolved against the external
// disease vocabularies; unmatched vocabularies stay NULL.
type Disease struct {
	ID              uint    `gorm:"primarykey"`
	Name            string  `gorm:"size:255;uniqueIndex;not null"`
	OmimID          *string `gorm:"column:omim_id;size:32"`
	DiseaseOntology *string `gorm:"column:dion;size:255"`
	HumanPhenotype  *string `gorm:"column:hpo;size:255"`
	MeshDiseases    *string `gorm:"column:mesh_diseases;size:255"`
	Metabolites     []MetaboliteDiseaseReference
}

type MetaboliteBiofluid struct {
	ID           uint `gorm:"primarykey"`
	MetaboliteID uint `gorm:"index;not null"`
	Metabolite   *Metabolite
	BiofluidID   uint `gorm:"index;not null"`
	Biofluid     *Biofluid
}

type MetaboliteTissue struct {
	ID           uint `gorm:"primarykey"`
	MetaboliteID uint `gorm:"index;not null"`
	Metabolite   *Metabolite
	TissueID     uint `gorm:"index;not null"`
	Tissue       *Tissue
}

type MetaboliteCellularLocation struct {
	ID                 uint `gorm:"primarykey"`
	MetaboliteID       uint `gorm:"index;not null"`
	Metabolite         *Metabolite
	CellularLocationID uint `gorm:"index;not null"`
	CellularLocation   *CellularLocation
}

type MetaboliteBiofunction struct {
	ID            uint `gorm:"primarykey"`
	MetaboliteID  uint `gorm:"index;not null"`
	Metabolite    *Metabolite
	BiofunctionID uint `gorm:"index;not null"`
	Biofunction   *Biofunction
}

type MetabolitePathway struct {
	ID           uint `gorm:"primarykey"`
	MetaboliteID uint `gorm:"index;not null"`
	Metabolite   *Metabolite
	PathwayID    uint `gorm:"index;not null"`
	Pathway      *Pathway
}

type MetaboliteProtein struct {
	ID           uint `gorm:"primarykey"`
	MetaboliteID uint `gorm:"index;not null"`
	Metabolite   *Metabolite
	ProteinID    uint `gorm:"index;not null"`
	Protein      *Protein
}

type MetaboliteReference struct {
	ID           uint `gorm:"primarykey"`
	MetaboliteID uint `gorm:"index;not null"`
	Metabolite   *Metabolite
	ReferenceID  uint `gorm:"index;not null"`
	Reference    *Reference
}

// MetaboliteDiseaseReference links a metabolite to a disease through one
// supporting citation. A (metabolite, disease) pair has one row per citation.
type MetaboliteDiseaseReference struct {
	ID           uint `gorm:"primarykey"`
	MetaboliteID uint `gorm:"index;not null"`
	Metabolite   *Metabolite
	DiseaseID    uint `gorm:"index;not null"`
	Disease      *Disease
	ReferenceID  uint `gorm:"index;not null"`
	Reference    *Reference
}
