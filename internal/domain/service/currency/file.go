package currency

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"bargain/internal/domain/value"
)

// ratesFile is the on-disk layout:
//
//	rates:
//	  USD: "83.12"
//	  EUR: "90.40"
type ratesFile struct {
	Rates map[string]string `yaml:"rates"`
}

const maxRatesDocumentSize = 1 << 20

// LoadFile reads exchange rates from a YAML file.
func LoadFile(path string) (map[value.Currency]decimal.Decimal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rates file: %w", err)
	}

	return decodeRates(data, path)
}

// LoadURL fetches the same YAML document over HTTP.
func LoadURL(ctx context.Context, client *http.Client, url string) (map[value.Currency]decimal.Decimal, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch rates %s: unexpected status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRatesDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("read rates: %w", err)
	}

	return decodeRates(data, url)
}

func decodeRates(data []byte, source string) (map[value.Currency]decimal.Decimal, error) {
	var file ratesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode rates %s: %w", source, err)
	}

	rates, err := ParseRates(file.Rates)
	if err != nil {
		return nil, fmt.Errorf("rates %s: %w", source, err)
	}

	return rates, nil
}
