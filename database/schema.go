package database

import (
	"context"
	"errors"
	"slices"
)

// Models lists every table, shared entities before the rows that reference them.
func Models() []any {
	return []any{
		&Metabolite{},
		&Biofluid{},
		&Tissue{},
		&CellularLocation{},
		&Biofunction{},
		&Pathway{},
		&Protein{},
		&Reference{},
		&Disease{},
		&SecondaryAccession{},
		&Synonym{},
		&MetaboliteBiofluid{},
		&MetaboliteTissue{},
		&MetaboliteCellularLocation{},
		&MetaboliteBiofunction{},
		&MetabolitePathway{},
		&MetaboliteProtein{},
		&MetaboliteReference{},
		&MetaboliteDiseaseReference{},
	}
}

// CreateAll creates every missing table. Existing tables are left alone.
func (db *Database) CreateAll(ctx context.Context) error {
	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return errors.Join(errors.New("failed to create tables"), err)
	}
	return nil
}

// DropAll drops every table that exists, join rows first.
func (db *Database) DropAll(ctx context.Context) error {
	models := Models()
	slices.Reverse(models)
	migrator := db.WithContext(ctx).Migrator()
	for _, model := range models {
		if !migrator.HasTable(model) {
			continue
		}
		if err := migrator.DropTable(model); err != nil {
			return errors.Join(errors.New("failed to drop tables"), err)
		}
	}
	return nil
}
