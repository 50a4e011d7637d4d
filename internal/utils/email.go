package utils

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"ghariyaal_back_end/internal/models"

	"github.com/wneessen/go-mail"
)

const defaultSMTPPort = 587

// smtpPort lit SMTP_PORT, 587 par défaut
func smtpPort() int {
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultSMTPPort
}

// SendEmail envoie un e-mail HTML via le SMTP configuré dans .env
func SendEmail(to, subject, htmlBody string) error {
	msg := mail.NewMsg()

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "noreply@ghariyaal.com"
	}
	if err := msg.From(from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	client, err := mail.NewClient(os.Getenv("SMTP_HOST"),
		mail.WithPort(smtpPort()),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de l'e-mail à", to)
	return client.DialAndSend(msg)
}

// GenerateOrderConfirmationHTML génère le HTML de confirmation de commande,
// avec le QR de référence de paiement à la livraison
func GenerateOrderConfirmationHTML(order models.Order, qrBase64 string) string {
	itemsHTML := ""
	for _, item := range order.Items {
		itemsHTML += fmt.Sprintf(`
			<tr>
				<td style="padding: 10px; border: 1px solid #ddd;">%s</td>
				<td style="padding: 10px; border: 1px solid #ddd;">%d</td>
				<td style="padding: 10px; border: 1px solid #ddd;">%.2f</td>
				<td style="padding: 10px; border: 1px solid #ddd;">%.2f</td>
			</tr>`, item.Name, item.Quantity, item.Price, item.Price*float64(item.Quantity))
	}

	qrHTML := ""
	if qrBase64 != "" {
		qrHTML = fmt.Sprintf(`
		<p>Show this code to the delivery agent when paying:</p>
		<img src="%s" alt="payment reference" width="180" height="180" />`, qrBase64)
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<title>Order confirmation</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Your Ghariyaal order is confirmed</h2>
		<p>Hello,</p>
		<p>Your order <strong>%s</strong> has been placed successfully. Payment method: %s.</p>

		<h3>Order details</h3>
		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background-color: #f0f0f0;">
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Product</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Quantity</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Unit price</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Total</th>
				</tr>
			</thead>
			<tbody>
				%s
			</tbody>
			<tfoot>
				<tr>
					<td colspan="3" style="padding: 10px; text-align: right; font-weight: bold;">Total:</td>
					<td style="padding: 10px; font-weight: bold;">%.2f</td>
				</tr>
			</tfoot>
		</table>
		%s
		<p style="margin-top: 30px; color: #555;">
			Best regards,<br>
			<strong>The Ghariyaal team</strong>
		</p>
	</div>
</body>
</html>`, order.ID.Hex(), order.PaymentMethod, itemsHTML, order.TotalPrice, qrHTML)
}

// GeneratePasswordResetHTML génère le HTML du mail de réinitialisation
func GeneratePasswordResetHTML(resetURL string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="en">
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Reset your password</h2>
		<p>We received a request to reset your Ghariyaal password.</p>
		<p><a href="%s" style="display: inline-block; padding: 12px 24px; background-color: #333; color: white; text-decoration: none; border-radius: 6px;">Reset password</a></p>
		<p style="color: #555;">This link expires in 1 hour. If you did not request it, you can ignore this e-mail.</p>
	</div>
</body>
</html>`, resetURL)
}
