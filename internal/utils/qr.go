package utils

import (
	"encoding/base64"
	"fmt"

	"github.com/skip2/go-qrcode"
)

// GeneratePaymentRefQR génère le QR de référence de paiement à la livraison,
// en base64 prêt à mettre dans <img src="...">. Le livreur le scanne pour
// rapprocher l'encaissement de la commande.
func GeneratePaymentRefQR(orderID string, amount float64) (string, error) {
	payload := fmt.Sprintf("GHARIYAAL-COD\n%s\nPKR%.2f", orderID, amount)

	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
