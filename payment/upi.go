// Package payment drives the UPI payment step of the paid resume-creation
// flow. Payment completion is self-attested: the flow launches (or shows)
// the UPI intent, waits for the user to confirm, and only then releases the
// profile to the server. The Confirmer seam is where a server-verified
// callback would slot in if the gateway ever provides one.
package payment

import (
	"fmt"
	"net/url"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	Amount   = "199"
	Currency = "INR"
)

// BuildUPIURI assembles the upi://pay deep link. The transaction note
// carries the sender's number so the payee can reconcile the transfer.
func BuildUPIURI(payeeHandle, payeeName, senderNumber string) string {
	note := fmt.Sprintf("Resume Creation Payment (%s)", senderNumber)
	return "upi://pay" +
		"?pa=" + url.QueryEscape(payeeHandle) +
		"&pn=" + url.QueryEscape(payeeName) +
		"&am=" + Amount +
		"&cu=" + Currency +
		"&tn=" + url.QueryEscape(note)
}

// QRPNG renders the UPI URI as a PNG for the desktop path, where there is
// no app to hand the deep link to.
func QRPNG(uri string) ([]byte, error) {
	png, err := qrcode.Encode(uri, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("render upi qr: %w", err)
	}
	return png, nil
}
