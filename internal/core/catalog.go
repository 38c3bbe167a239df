package core

import (
	"strings"

	"github.com/google/uuid"
)

type (
	// MobileWallet is a named mobile-money provider. Logo is a client-side
	// asset key resolved by MapWalletLogos, never sent by the catalog
	// service.
	MobileWallet struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Logo string `json:"logo,omitempty"`
	}

	// TransferOption is one entry of a wizard choice screen.
	TransferOption struct {
		Icon  string `json:"icon"`
		Title string `json:"title"`
	}

	// Contact is a phone-book entry a recipient can be created from.
	Contact struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Phone     string `json:"phone"`
	}
)

// Canned choice lists for the first two wizard steps.
var (
	MoneyTransferOptions = []TransferOption{
		{Icon: "user-square", Title: "To Moneco balance"},
		{Icon: "store", Title: "Bank transfer"},
		{Icon: "world", Title: "Send to Africa"},
	}

	TransferDestOptions = []TransferOption{
		{Icon: "arrow-square-right", Title: "Mobile wallets"},
		{Icon: "arrow-square-right", Title: "Bank transfer"},
	}
)

// walletLogos maps provider-name fragments to asset keys.
var walletLogos = []struct{ fragment, logo string }{
	{"wave", "wave-wallet"},
	{"mtn", "mtn-money-wallet"},
	{"orange", "orange-money-wallet"},
	{"moov", "moov-money"},
	{"cash", "cash-plus"},
}

const unknownWalletLogo = "broken-image"

// MapWalletLogos fills in the logo asset key for each wallet based on its
// provider name. Unrecognized providers get a placeholder.
func MapWalletLogos(wallets []MobileWallet) []MobileWallet {
	out := make([]MobileWallet, len(wallets))
	for i, w := range wallets {
		w.Logo = unknownWalletLogo
		name := strings.ToLower(w.Name)
		for _, m := range walletLogos {
			if strings.Contains(name, m.fragment) {
				w.Logo = m.logo
				break
			}
		}
		out[i] = w
	}
	return out
}

// currencyByCountry covers the countries the transfer flow targets. Full
// locale-based lookup is out of scope; unknown countries leave the
// recipient's currency code empty.
var currencyByCountry = map[string]string{
	"benin":         "XOF",
	"burkina faso":  "XOF",
	"cameroon":      "XAF",
	"ghana":         "GHS",
	"ivory coast":   "XOF",
	"cote d'ivoire": "XOF",
	"mali":          "XOF",
	"morocco":       "MAD",
	"niger":         "XOF",
	"nigeria":       "NGN",
	"senegal":       "XOF",
	"togo":          "XOF",
	"france":        "EUR",
	"united states": "USD",
}

// CurrencyCodeForCountry returns the ISO currency code for a country name,
// or "" when the country is not known.
func CurrencyCodeForCountry(country string) string {
	return currencyByCountry[strings.ToLower(strings.TrimSpace(country))]
}

// ContactToRecipient builds a recipient from a picked contact. The id is a
// fresh UUID; the mobile wallet identifier stays empty until the wallet step.
func ContactToRecipient(c Contact, country string) Recipient {
	return Recipient{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(c.FirstName + " " + c.LastName),
		Country:      country,
		MobileWallet: "",
		PhoneNumber:  c.Phone,
		CurrencyCode: CurrencyCodeForCountry(country),
	}
}
