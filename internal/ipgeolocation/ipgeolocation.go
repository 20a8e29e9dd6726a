package ipgeolocation

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

type IPGeoLocation struct {
	apiKey string
	uri    string
}

type Currency struct {
	Code   string
	Symbol string
}

const (
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
	CurrencyGBP = "GBP"
)

type lookupResponse struct {
	Currency struct {
		Code   string `json:"code"`
		Symbol string `json:"symbol"`
	} `json:"currency"`
}

func NewIPGeoLocation(apiKey, URI string) IPGeoLocation {
	return IPGeoLocation{apiKey: apiKey, uri: URI}
}

// GetIPFromRequest extracts the originating client IP from x-forwarded-for.
func GetIPFromRequest(r *http.Request) (string, error) {
	ips := strings.Split(r.Header.Get("x-forwarded-for"), ", ")
	if len(ips) == 0 || strings.TrimSpace(ips[0]) == "" {
		return "", errors.New("could not find ip address in x-forwarded-for header")
	}
	return strings.TrimSpace(ips[0]), nil
}

// GetCurrencyForIP resolves the billing currency for the visitor's IP.
// Falls back to USD on any lookup failure or unsupported currency.
func (i IPGeoLocation) GetCurrencyForIP(ip string) (Currency, error) {
	res, err := http.Get(fmt.Sprintf("%s?apiKey=%s&ip=%s", i.uri, i.apiKey, ip))
	if err != nil {
		return Currency{CurrencyUSD, "$"}, errors.Wrapf(err, "unable to call api.ipgeolocation.io for IP lookup %#v", ip)
	}
	defer res.Body.Close()
	var meta lookupResponse
	if err := json.NewDecoder(res.Body).Decode(&meta); err != nil {
		return Currency{CurrencyUSD, "$"}, errors.Wrapf(err, "unable to parse api.ipgeolocation.io response for IP lookup %#v", ip)
	}
	if meta.Currency.Code == "" {
		return Currency{CurrencyUSD, "$"}, fmt.Errorf("no currency in api.ipgeolocation.io response for IP %#v", ip)
	}
	if meta.Currency.Code != CurrencyEUR && meta.Currency.Code != CurrencyGBP && meta.Currency.Code != CurrencyUSD {
		return Currency{CurrencyUSD, "$"}, nil
	}
	return Currency{meta.Currency.Code, meta.Currency.Symbol}, nil
}
