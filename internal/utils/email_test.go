package utils

import (
	"fmt"
	"testing"

	"ghariyaal_back_end/internal/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGenerateOrderConfirmationHTML(t *testing.T) {
	t.Parallel()

	order := models.Order{
		ID:            primitive.NewObjectID(),
		TotalPrice:    12499,
		PaymentMethod: models.PaymentCashOnDelivery,
		Items: []models.OrderItem{
			{Name: "Chrono Steel", Price: 4999.50, Quantity: 2},
			{Name: "Rose Quartz", Price: 2500, Quantity: 1},
		},
	}

	html := GenerateOrderConfirmationHTML(order, "data:image/png;base64,AAAA")

	assert.Contains(t, html, order.ID.Hex())
	assert.Contains(t, html, "Chrono Steel")
	assert.Contains(t, html, "Rose Quartz")
	assert.Contains(t, html, "Cash on Delivery")
	assert.Contains(t, html, fmt.Sprintf("%.2f", order.TotalPrice))
	assert.Contains(t, html, "data:image/png;base64,AAAA")
}

func TestGenerateOrderConfirmationHTML_NoQR(t *testing.T) {
	t.Parallel()

	html := GenerateOrderConfirmationHTML(models.Order{ID: primitive.NewObjectID()}, "")
	assert.NotContains(t, html, "<img")
}

func TestSMTPPort(t *testing.T) {
	t.Setenv("SMTP_PORT", "")
	assert.Equal(t, 587, smtpPort())

	t.Setenv("SMTP_PORT", "2525")
	assert.Equal(t, 2525, smtpPort())

	t.Setenv("SMTP_PORT", "not-a-port")
	assert.Equal(t, 587, smtpPort())

	t.Setenv("SMTP_PORT", "-1")
	assert.Equal(t, 587, smtpPort())
}

func TestGeneratePasswordResetHTML(t *testing.T) {
	t.Parallel()

	html := GeneratePasswordResetHTML("https://ghariyaal.com/reset?token=abc")
	assert.Contains(t, html, `href="https://ghariyaal.com/reset?token=abc"`)
	assert.Contains(t, html, "expires in 1 hour")
}
