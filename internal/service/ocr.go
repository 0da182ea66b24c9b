package service

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/pageza/despensa/backend/internal/models"
	"github.com/pageza/despensa/backend/internal/types"
)

const ticketStore = "Supermercado Central"

// OCRService is a placeholder receipt scanner. It returns a fixed ticket.
type OCRService struct {
	log logrus.FieldLogger
	now func() time.Time
}

var _ IOCRService = (*OCRService)(nil)

func NewOCRService(log logrus.FieldLogger) *OCRService {
	return &OCRService{log: log, now: time.Now}
}

func ticketLine(name string, qty float64, unit models.Unit, cat models.Category, price string) types.ProductRequest {
	q := qty
	return types.ProductRequest{
		Name:     name,
		Quantity: &q,
		Unit:     unit,
		Category: cat,
		Location: models.LocationPantry,
		Price:    decimal.NewNullDecimal(decimal.RequireFromString(price)),
		Store:    ticketStore,
	}
}

func (s *OCRService) ProcessTicket(ctx context.Context, req *types.ProcessTicketRequest) (*types.TicketResult, error) {
	image := strings.TrimSpace(req.Image)
	if image == "" {
		return nil, NewValidationError("image", "is required")
	}
	switch req.ImageType {
	case "", "base64":
	case "url":
		u, err := url.Parse(image)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, NewValidationError("image", "must be an http(s) URL")
		}
	default:
		return nil, NewValidationError("image_type", "must be base64 or url")
	}

	products := []types.ProductRequest{
		ticketLine("Leche entera", 1, models.UnitLiter, models.CategoryDairy, "2.50"),
		ticketLine("Pan integral", 1, models.UnitPieces, models.CategoryCereals, "1.80"),
		ticketLine("Manzanas", 1.5, models.UnitKilogram, models.CategoryFruits, "3.20"),
		ticketLine("Pollo", 1, models.UnitKilogram, models.CategoryMeat, "8.50"),
	}
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.Price.Decimal)
	}

	return &types.TicketResult{
		Products:    products,
		TotalAmount: total,
		Store:       ticketStore,
		Date:        s.now().UTC(),
		Confidence:  0.95,
	}, nil
}

// History returns processed tickets. Tickets are not stored yet.
func (s *OCRService) History(ctx context.Context) (*types.TicketHistory, error) {
	return &types.TicketHistory{Tickets: []types.TicketResult{}, Total: 0}, nil
}

var dataURIFormat = regexp.MustCompile(`^data:image/([^;]+);`)

var supportedImageFormats = map[string]bool{"jpeg": true, "jpg": true, "png": true, "webp": true}

// ValidateImage checks that image is a data URI in a supported format
func (s *OCRService) ValidateImage(ctx context.Context, image string) *types.ImageValidation {
	result := &types.ImageValidation{Message: "Formato de imagen no soportado"}
	if m := dataURIFormat.FindStringSubmatch(image); m != nil {
		format := m[1]
		result.Format = &format
		result.IsValid = supportedImageFormats[strings.ToLower(format)]
	}
	if result.IsValid {
		result.Message = "Imagen válida"
	}
	return result
}
