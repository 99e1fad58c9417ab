package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pos_core/internal/pos"

	"go.uber.org/zap"
)

const BackupVersion = "1.0.0"

// Backup is the exported document. Only products, sales and settings are
// included.
type Backup struct {
	Products   []pos.Product `json:"products"`
	Sales      []pos.Sale    `json:"sales"`
	Settings   pos.Settings  `json:"settings"`
	Version    string        `json:"version"`
	ExportDate time.Time     `json:"exportDate"`
}

// RestoreInput keeps settings raw so absent fields leave the current values
// untouched.
type RestoreInput struct {
	Products []pos.Product  `json:"products"`
	Sales    []pos.Sale     `json:"sales"`
	Settings json.RawMessage `json:"settings"`
}

func (s *Service) Backup() Backup {
	snap := s.store.Snapshot()
	return Backup{
		Products:   snap.Products,
		Sales:      snap.Sales,
		Settings:   snap.Settings,
		Version:    BackupVersion,
		ExportDate: s.now().UTC(),
	}
}

// BackupFilename is the suggested download name for today's backup.
func (s *Service) BackupFilename() string {
	return fmt.Sprintf("vendaninja-backup-%s.json", s.now().UTC().Format(dateLayout))
}

// Restore replaces products and sales and merges settings over the current
// record. The active storage type is kept; switching backends goes through the
// migration path.
func (s *Service) Restore(ctx context.Context, in RestoreInput) error {
	products := make([]pos.Product, len(in.Products))
	for i, p := range in.Products {
		if p.ID == "" {
			return pos.Validation(pos.ErrInvalidProduct, "product %d has no id", i)
		}
		products[i] = p.Clone()
	}
	sales := make([]pos.Sale, len(in.Sales))
	for i, sale := range in.Sales {
		sales[i] = sale.Clone()
	}

	err := s.store.Update(ctx, func(st *pos.State) error {
		settings := st.Settings
		if settings.Timezone != nil {
			tz := *settings.Timezone
			settings.Timezone = &tz
		}
		if len(in.Settings) > 0 && string(in.Settings) != "null" {
			if err := json.Unmarshal(in.Settings, &settings); err != nil {
				return pos.Validation(pos.ErrInvalidSettings, "%v", err)
			}
		}
		settings.StorageType = st.Settings.StorageType

		st.Products = products
		st.Sales = sales
		st.Settings = settings
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("backup restored", zap.Int("products", len(products)), zap.Int("sales", len(sales)))
	return nil
}
