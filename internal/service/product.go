package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pageza/despensa/backend/internal/models"
	"github.com/pageza/despensa/backend/internal/pantry"
	"github.com/pageza/despensa/backend/internal/types"
)

// ProductService manages the products of a user's pantry. Every operation is
// scoped to the owner; other users' products behave as missing.
type ProductService struct {
	db        *gorm.DB
	threshold int
	loc       *time.Location
	log       logrus.FieldLogger
	now       func() time.Time
}

var _ IProductService = (*ProductService)(nil)

func NewProductService(db *gorm.DB, threshold int, loc *time.Location, log logrus.FieldLogger) *ProductService {
	if loc == nil {
		loc = time.UTC
	}
	return &ProductService{
		db:        db,
		threshold: threshold,
		loc:       loc,
		log:       log,
		now:       time.Now,
	}
}

// SetClock replaces the time source, used by tests
func (s *ProductService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *ProductService) today() time.Time {
	return s.now().In(s.loc)
}

func (s *ProductService) respond(p *models.Product) types.ProductResponse {
	return types.ProductResponse{
		Product:    *p,
		Evaluation: pantry.Evaluate(p.ExpiryDate, s.today(), s.threshold),
	}
}

func (s *ProductService) List(ctx context.Context, owner uuid.UUID, filter types.ProductFilter, page types.PageRequest) (types.Page[types.ProductResponse], error) {
	now := s.today()
	q := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("created_by = ? AND is_consumed = ?", owner, false)

	if filter.Category != nil {
		q = q.Where("category = ?", *filter.Category)
	}
	if filter.Location != nil {
		q = q.Where("location = ?", *filter.Location)
	}
	if filter.ExpiringSoon {
		from, to := pantry.ExpiringWindow(now, s.threshold)
		q = q.Where("expiry_date >= ? AND expiry_date < ?", from.UTC(), to.UTC())
	}
	if filter.Expired {
		q = q.Where("expiry_date < ?", pantry.ExpiredBefore(now).UTC())
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return types.Page[types.ProductResponse]{}, err
	}

	var products []models.Product
	err := q.Order("CASE WHEN expiry_date IS NULL THEN 1 ELSE 0 END").
		Order("expiry_date ASC").
		Order("created_at DESC").
		Offset(page.Offset()).Limit(page.Limit).
		Find(&products).Error
	if err != nil {
		return types.Page[types.ProductResponse]{}, err
	}

	items := make([]types.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, s.respond(&products[i]))
	}
	return types.NewPage(items, page, total), nil
}

func (s *ProductService) Stats(ctx context.Context, owner uuid.UUID) (*pantry.Stats, error) {
	var items []pantry.StatItem
	err := s.db.WithContext(ctx).Model(&models.Product{}).
		Select("category", "location", "expiry_date", "is_consumed").
		Where("created_by = ? AND is_consumed = ?", owner, false).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	stats := pantry.Summarize(items, s.today(), s.threshold)
	return &stats, nil
}

func (s *ProductService) find(ctx context.Context, owner, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).Where("id = ? AND created_by = ?", id, owner).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *ProductService) Get(ctx context.Context, owner, id uuid.UUID) (*types.ProductResponse, error) {
	p, err := s.find(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	resp := s.respond(p)
	return &resp, nil
}

// buildProduct validates req and applies defaults
func (s *ProductService) buildProduct(req *types.ProductRequest) (*models.Product, *ValidationError) {
	verr := &ValidationError{}

	p := &models.Product{
		Name:     requireText(verr, "name", req.Name, 100),
		Quantity: 1,
		Unit:     req.Unit,
		Category: req.Category,
		Location: req.Location,
		Price:    req.Price,
		Store:    req.Store,
		Barcode:  req.Barcode,
		ImageURL: req.ImageURL,
		Notes:    req.Notes,
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			verr.Add("quantity", "cannot be negative")
		}
		p.Quantity = *req.Quantity
	}
	if p.Unit == "" {
		p.Unit = models.UnitPieces
	}
	if p.Category == "" {
		p.Category = models.CategoryOther
	}
	if p.Location == "" {
		p.Location = models.LocationPantry
	}
	if _, err := models.ParseUnit(string(p.Unit)); err != nil {
		verr.Add("unit", err.Error())
	}
	if _, err := models.ParseCategory(string(p.Category)); err != nil {
		verr.Add("category", err.Error())
	}
	if _, err := models.ParseLocation(string(p.Location)); err != nil {
		verr.Add("location", err.Error())
	}
	if p.Price.Valid && p.Price.Decimal.IsNegative() {
		verr.Add("price", "cannot be negative")
	}
	checkLength(verr, "store", p.Store, 50)
	checkLength(verr, "notes", p.Notes, 500)

	if req.ExpiryDate != nil {
		t := req.ExpiryDate.In(s.loc).UTC()
		p.ExpiryDate = &t
	}
	if req.PurchaseDate != nil {
		p.PurchaseDate = req.PurchaseDate.In(s.loc).UTC()
	} else {
		p.PurchaseDate = s.now().UTC()
	}

	if len(verr.Fields) > 0 {
		return nil, verr
	}
	return p, nil
}

func (s *ProductService) Create(ctx context.Context, owner uuid.UUID, req *types.ProductRequest) (*types.ProductResponse, error) {
	p, verr := s.buildProduct(req)
	if verr != nil {
		return nil, verr
	}
	p.CreatedBy = owner

	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	resp := s.respond(p)
	return &resp, nil
}

// CreateBulk inserts all products or none
func (s *ProductService) CreateBulk(ctx context.Context, owner uuid.UUID, reqs []types.ProductRequest) ([]types.ProductResponse, error) {
	if len(reqs) == 0 {
		return nil, NewValidationError("products", "at least one product is required")
	}

	verr := &ValidationError{}
	products := make([]*models.Product, 0, len(reqs))
	for i := range reqs {
		p, perr := s.buildProduct(&reqs[i])
		if perr != nil {
			verr.Merge(indexPrefix("products", i), perr)
			continue
		}
		p.CreatedBy = owner
		products = append(products, p)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range products {
			if err := tx.Create(p).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]types.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, s.respond(p))
	}
	s.log.WithFields(logrus.Fields{"user_id": owner, "count": len(out)}).Info("Bulk products created")
	return out, nil
}

// Replace overwrites every editable field of a product
func (s *ProductService) Replace(ctx context.Context, owner, id uuid.UUID, req *types.ProductRequest) (*types.ProductResponse, error) {
	next, verr := s.buildProduct(req)
	if verr != nil {
		return nil, verr
	}

	existing, err := s.find(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	next.ID = existing.ID
	next.CreatedBy = existing.CreatedBy
	next.CreatedAt = existing.CreatedAt
	next.IsConsumed = existing.IsConsumed
	next.ConsumedDate = existing.ConsumedDate
	if req.PurchaseDate == nil {
		next.PurchaseDate = existing.PurchaseDate
	}

	if err := s.db.WithContext(ctx).Save(next).Error; err != nil {
		return nil, err
	}
	resp := s.respond(next)
	return &resp, nil
}

// Consume marks a product used up in a single statement
func (s *ProductService) Consume(ctx context.Context, owner, id uuid.UUID) (*types.ProductResponse, error) {
	now := s.now().UTC()
	res := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND created_by = ?", id, owner).
		Updates(map[string]interface{}{
			"is_consumed":   true,
			"quantity":      0,
			"consumed_date": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, owner, id)
}

func (s *ProductService) Delete(ctx context.Context, owner, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ? AND created_by = ?", id, owner).Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
