package postgres

import (
	"context"
	"database/sql"
	"strconv"

	"go.uber.org/zap"

	"github.com/roboticsleb/storefront/internal/domain"
)

type settingsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSettingsRepository creates a new settings repository. Values are read
// fresh on each Get so admin edits take effect immediately.
func NewSettingsRepository(db *sql.DB, logger *zap.Logger) *settingsRepository {
	return &settingsRepository{
		db:     db,
		logger: logger,
	}
}

func (r *settingsRepository) Get(ctx context.Context) (*domain.Settings, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT k, v FROM settings`)
	if err != nil {
		r.logger.Error("Failed to read settings", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	kv := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		kv[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	s := &domain.Settings{
		DeliveryDhaka:   floatSetting(kv, "deliveryDhaka", domain.DefaultDeliveryDhaka),
		DeliveryOutside: floatSetting(kv, "deliveryOutside", domain.DefaultDeliveryOutside),
		CancelWindowMin: intSetting(kv, "cancelWindowMin", domain.DefaultCancelWindowMin),
	}
	// Enforced floor so a bad setting can never make cancellation impossible
	if s.CancelWindowMin < 1 {
		s.CancelWindowMin = 1
	}
	return s, nil
}

func (r *settingsRepository) Set(ctx context.Context, values map[string]string) error {
	query := `
		INSERT INTO settings (k, v) VALUES ($1, $2)
		ON CONFLICT (k) DO UPDATE SET v = EXCLUDED.v
	`

	for k, v := range values {
		if _, err := r.db.ExecContext(ctx, query, k, v); err != nil {
			r.logger.Error("Failed to write setting", zap.String("key", k), zap.Error(err))
			return err
		}
	}
	return nil
}

func floatSetting(kv map[string]string, key string, def float64) float64 {
	if v, ok := kv[key]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func intSetting(kv map[string]string, key string, def int) int {
	if v, ok := kv[key]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
