// Package repo implements the data persistence layer for clientes, backed by
// GORM. This file provides small aggregate queries used for conditional
// responses (ETag generation) in the HTTP layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-clientes-api/internal/domain"
)

// ClientesStats returns the number of clientes matching the estado filter
// ("" means all) and the greatest fecha_actualizacion among them. When no
// row matches, count is 0 and maxUpdatedAt is nil.
func ClientesStats(ctx context.Context, db *gorm.DB, estado string) (count int64, maxUpdatedAt *time.Time, err error) {
	q := scopeEstado(db.WithContext(ctx).Model(&domain.Cliente{}), estado)

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest fecha_actualizacion (avoid MAX() -> TEXT in SQLite)
	var row struct {
		FechaActualizacion time.Time
	}
	q = scopeEstado(db.WithContext(ctx).Model(&domain.Cliente{}), estado)
	if err = q.Select("fecha_actualizacion").Order("fecha_actualizacion DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.FechaActualizacion, nil
}
