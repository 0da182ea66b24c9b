package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/despensa/backend/internal/logger"
	"github.com/pageza/despensa/backend/internal/service"
	"github.com/pageza/despensa/backend/internal/types"
)

func TestOCRService_ProcessTicket(t *testing.T) {
	svc := service.NewOCRService(logger.Discard())
	ctx := context.Background()

	got, err := svc.ProcessTicket(ctx, &types.ProcessTicketRequest{Image: "aGVsbG8="})
	require.NoError(t, err)
	require.Len(t, got.Products, 4)
	assert.Equal(t, "16", got.TotalAmount.String())
	assert.Equal(t, "Supermercado Central", got.Store)
	assert.Equal(t, 0.95, got.Confidence)

	_, err = svc.ProcessTicket(ctx, &types.ProcessTicketRequest{Image: "not a url", ImageType: "url"})
	var verr *service.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.ProcessTicket(ctx, &types.ProcessTicketRequest{Image: "https://example.com/t.jpg", ImageType: "url"})
	assert.NoError(t, err)
}

func TestOCRService_ValidateImage(t *testing.T) {
	svc := service.NewOCRService(logger.Discard())
	ctx := context.Background()

	tests := []struct {
		name   string
		image  string
		valid  bool
		format string
	}{
		{"png", "data:image/png;base64,AAAA", true, "png"},
		{"uppercase jpeg", "data:image/JPEG;base64,AAAA", true, "JPEG"},
		{"gif", "data:image/gif;base64,AAAA", false, "gif"},
		{"plain base64", "AAAA", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.ValidateImage(ctx, tt.image)
			assert.Equal(t, tt.valid, got.IsValid)
			if tt.format == "" {
				assert.Nil(t, got.Format)
			} else {
				require.NotNil(t, got.Format)
				assert.Equal(t, tt.format, *got.Format)
			}
		})
	}

	history, err := svc.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, history.Tickets)
	assert.Zero(t, history.Total)
}
