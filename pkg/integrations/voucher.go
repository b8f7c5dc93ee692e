package integrations

import (
	"encoding/json"
	"fmt"
	"os"
)

// credentials is the key material needed to decrypt one container.
type credentials struct {
	Key string
	IV  string
}

// readVoucher extracts the decryption key and IV from an audible-cli
// voucher file.
func readVoucher(path string) (credentials, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return credentials{}, fmt.Errorf("read voucher: %w", err)
	}

	var voucher struct {
		ContentLicense struct {
			LicenseResponse struct {
				Key string `json:"key"`
				IV  string `json:"iv"`
			} `json:"license_response"`
		} `json:"content_license"`
	}
	if err := json.Unmarshal(raw, &voucher); err != nil {
		return credentials{}, fmt.Errorf("parse voucher %s: %w", path, err)
	}

	creds := credentials{
		Key: voucher.ContentLicense.LicenseResponse.Key,
		IV:  voucher.ContentLicense.LicenseResponse.IV,
	}
	if creds.Key == "" || creds.IV == "" {
		return credentials{}, fmt.Errorf("voucher %s has no key/iv", path)
	}
	return creds, nil
}
