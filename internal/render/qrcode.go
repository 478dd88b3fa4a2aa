package render

import (
	"github.com/skip2/go-qrcode"
)

// GenerateQRCodeText returns a QR code for payload drawn with Unicode half
// blocks, suitable for printing to a terminal.
// If payload is empty, it returns ("", nil).
func GenerateQRCodeText(payload string) (string, error) {
	if payload == "" {
		return "", nil
	}

	qrCode, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return "", err
	}

	return qrCode.ToSmallString(false), nil
}
