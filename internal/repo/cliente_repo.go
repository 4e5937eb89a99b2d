// Package repo implements the data persistence layer for clientes, backed by
// GORM. This file provides repository functions for the Cliente model.
//
// The free functions accept a *gorm.DB handle so they compose inside a
// transaction; ClienteStore wraps them with one transaction per call and is
// what the service layer depends on.
//
// Error semantics:
//   - Missing rows return ErrNotFound (gorm.ErrRecordNotFound).
//   - Unique violations on email return ErrDuplicate.
//   - Other DB errors are propagated as is.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-clientes-api/internal/domain"
	"github.com/tbourn/go-clientes-api/internal/utils"
)

// mutableColumns are the columns written by an update.
var mutableColumns = []string{"nombre", "email", "telefono", "estado", "fecha_actualizacion"}

// GetCliente fetches a single cliente by id, or ErrNotFound.
func GetCliente(ctx context.Context, db *gorm.DB, id uint64) (*domain.Cliente, error) {
	var c domain.Cliente
	if err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// FindClienteByEmail returns the cliente owning email, or (nil, nil) when
// there is none. Matching is exact.
func FindClienteByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.Cliente, error) {
	var out []domain.Cliente
	err := db.WithContext(ctx).
		Where("email = ?", email).
		Limit(1).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

func scopeEstado(db *gorm.DB, estado string) *gorm.DB {
	if estado == "" {
		return db
	}
	return db.Where("estado = ?", estado)
}

// CountClientes returns the number of clientes, optionally filtered by estado.
func CountClientes(ctx context.Context, db *gorm.DB, estado string) (int64, error) {
	var total int64
	err := scopeEstado(db.WithContext(ctx).Model(&domain.Cliente{}), estado).
		Count(&total).Error
	return total, err
}

// ListClientesPage returns a slice of clientes ordered by id ascending.
// The caller computes offset and limit (e.g., (page-1)*perPage).
func ListClientesPage(ctx context.Context, db *gorm.DB, estado string, offset, limit int) ([]domain.Cliente, error) {
	out := []domain.Cliente{}
	err := scopeEstado(db.WithContext(ctx), estado).
		Order("id asc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CreateClientes inserts every record, populating their ids. Callers wrap it
// in a transaction when all-or-nothing is required.
func CreateClientes(ctx context.Context, db *gorm.DB, records []*domain.Cliente) error {
	if len(records) == 0 {
		return nil
	}
	return translate(db.WithContext(ctx).Create(records).Error)
}

// SaveCliente writes the mutable columns of c. Returns ErrNotFound when the
// row no longer exists.
func SaveCliente(ctx context.Context, db *gorm.DB, c *domain.Cliente) error {
	res := db.WithContext(ctx).
		Model(&domain.Cliente{}).
		Where("id = ?", c.ID).
		Select(mutableColumns).
		Updates(c)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCliente hard-deletes the cliente with id. Returns ErrNotFound when
// nothing was deleted.
func DeleteCliente(ctx context.Context, db *gorm.DB, id uint64) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Cliente{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ClienteStore is the transactional cliente store used by the services.
type ClienteStore struct {
	db *gorm.DB
}

// NewClienteStore wraps db.
func NewClienteStore(db *gorm.DB) *ClienteStore { return &ClienteStore{db: db} }

// Get returns the cliente with id or ErrNotFound.
func (s *ClienteStore) Get(ctx context.Context, id uint64) (*domain.Cliente, error) {
	c, err := GetCliente(ctx, s.db, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return c, err
}

// FindByEmail returns the cliente owning email, or (nil, nil).
func (s *ClienteStore) FindByEmail(ctx context.Context, email string) (*domain.Cliente, error) {
	return FindClienteByEmail(ctx, s.db, email)
}

// ListPage returns one page of clientes and the total matching the filter.
// Count and page are read in the same transaction.
func (s *ClienteStore) ListPage(ctx context.Context, estado string, page, perPage int) ([]domain.Cliente, int64, error) {
	var (
		items []domain.Cliente
		total int64
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if total, err = CountClientes(ctx, tx, estado); err != nil {
			return err
		}
		items, err = ListClientesPage(ctx, tx, estado, utils.Offset(page, perPage), perPage)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// InsertAll inserts records in one transaction; either all are committed or
// none are.
func (s *ClienteStore) InsertAll(ctx context.Context, records []*domain.Cliente) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return CreateClientes(ctx, tx, records)
	})
}

// Update persists the mutable fields of c in one transaction.
func (s *ClienteStore) Update(ctx context.Context, c *domain.Cliente) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return SaveCliente(ctx, tx, c)
	})
}

// Delete removes the cliente with id in one transaction.
func (s *ClienteStore) Delete(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return DeleteCliente(ctx, tx, id)
	})
}

// Stats returns the count and latest fecha_actualizacion for the filter.
func (s *ClienteStore) Stats(ctx context.Context, estado string) (int64, *time.Time, error) {
	return ClientesStats(ctx, s.db, estado)
}
