package catalog

import (
	"context"
	"strings"

	"pos_core/internal/pos"

	"go.uber.org/zap"
)

// SettingsInput is the user-editable part of the settings record. The storage
// type is changed through SetStorageType only.
type SettingsInput struct {
	BusinessName string  `json:"businessName"`
	Currency     string  `json:"currency"`
	TaxRate      float64 `json:"taxRate"`
	Theme        string  `json:"theme"`
	Timezone     *int    `json:"timezone"`
	PixKeyType   string  `json:"pixKeyType"`
	PixKeyValue  string  `json:"pixKeyValue"`
}

func (in SettingsInput) apply(current pos.Settings) (pos.Settings, error) {
	defaults := pos.DefaultSettings()
	out := current

	out.BusinessName = strings.TrimSpace(in.BusinessName)
	if out.BusinessName == "" {
		out.BusinessName = defaults.BusinessName
	}
	out.Currency = strings.TrimSpace(in.Currency)
	if out.Currency == "" {
		out.Currency = defaults.Currency
	}

	if in.TaxRate < 0 {
		return pos.Settings{}, pos.Validation(pos.ErrInvalidSettings, "tax rate cannot be negative")
	}
	out.TaxRate = in.TaxRate

	switch theme := strings.TrimSpace(in.Theme); theme {
	case "":
		out.Theme = defaults.Theme
	case "light", "dark":
		out.Theme = theme
	default:
		return pos.Settings{}, pos.Validation(pos.ErrInvalidSettings, "unknown theme %q", theme)
	}

	if in.Timezone != nil {
		if *in.Timezone < -12 || *in.Timezone > 14 {
			return pos.Settings{}, pos.Validation(pos.ErrInvalidSettings, "timezone offset %d out of range", *in.Timezone)
		}
		tz := *in.Timezone
		out.Timezone = &tz
	} else {
		out.Timezone = nil
	}

	keyType := strings.TrimSpace(in.PixKeyType)
	keyValue := strings.TrimSpace(in.PixKeyValue)
	if keyType != "" && keyValue == "" {
		return pos.Settings{}, pos.Validation(pos.ErrInvalidSettings, "pix key value is required for type %s", keyType)
	}
	out.PixKeyType = keyType
	out.PixKeyValue = keyValue
	return out, nil
}

func (s *Service) Settings() pos.Settings {
	return s.store.Snapshot().Settings
}

func (s *Service) UpdateSettings(ctx context.Context, in SettingsInput) (pos.Settings, error) {
	var out pos.Settings
	err := s.store.Update(ctx, func(st *pos.State) error {
		next, err := in.apply(st.Settings)
		if err != nil {
			return err
		}
		st.Settings = next
		out = st.Clone().Settings
		return nil
	})
	return out, err
}

// Migrator copies the persisted state between backends and returns what it
// copied.
type Migrator interface {
	MigrateToDocument(ctx context.Context) (*pos.State, error)
	MigrateToKeyValue(ctx context.Context) (*pos.State, error)
}

// SetStorageType switches the active backend, migrating products, sales and
// settings to it. Selecting the current type does nothing.
func (s *Service) SetStorageType(ctx context.Context, migrator Migrator, target pos.StorageType) (pos.Settings, error) {
	if !target.Valid() {
		return pos.Settings{}, pos.Validation(pos.ErrInvalidStorageType, "got %q", target)
	}

	var out pos.Settings
	err := s.store.Update(ctx, func(st *pos.State) error {
		if st.Settings.StorageType == target {
			out = st.Clone().Settings
			return nil
		}

		migrate := migrator.MigrateToKeyValue
		if target == pos.StorageDocument {
			migrate = migrator.MigrateToDocument
		}
		loaded, err := migrate(ctx)
		if err != nil {
			return err
		}

		applied := st.AppliedCouponID
		*st = *loaded
		st.Normalize()
		st.AppliedCouponID = ""
		if st.FindCoupon(applied) != nil {
			st.AppliedCouponID = applied
		}
		out = st.Clone().Settings
		return nil
	})
	if err != nil {
		s.logger.Warn("storage type not changed", zap.String("target", string(target)), zap.Error(err))
		return pos.Settings{}, err
	}

	s.logger.Info("storage type changed", zap.String("storage_type", string(out.StorageType)))
	return out, nil
}
