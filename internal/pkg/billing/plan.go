package billing

import (
	"strconv"
	"strings"
	"time"

	"github.com/appfolio/showcase-api/internal/pkg/env"
)

const (
	defaultProPricePaise = 39900
	defaultProCurrency   = "INR"
	receiptSuffixLength  = 6
)

// Config holds the price of the upgrade and the provider key pair.
type Config struct {
	KeyID     string
	KeySecret string
	Amount    int64
	Currency  string
}

// LoadConfig reads the RAZORPAY_* and PRO_* keys.
func LoadConfig() Config {
	amount, err := strconv.ParseInt(strings.TrimSpace(env.GetEnv("PRO_PRICE_PAISE", "")), 10, 64)
	if err != nil || amount <= 0 {
		amount = defaultProPricePaise
	}
	currency := strings.ToUpper(strings.TrimSpace(env.GetEnv("PRO_CURRENCY", defaultProCurrency)))
	if currency == "" {
		currency = defaultProCurrency
	}
	return Config{
		KeyID:     strings.TrimSpace(env.GetEnv("RAZORPAY_KEY_ID", "")),
		KeySecret: strings.TrimSpace(env.GetEnv("RAZORPAY_KEY_SECRET", "")),
		Amount:    amount,
		Currency:  currency,
	}
}

// BuildReceipt returns PRO_<last 6 of account id>_<last 6 of unix millis>.
func BuildReceipt(accountID string, now time.Time) string {
	millis := strconv.FormatInt(now.UnixMilli(), 10)
	return "PRO_" + lastN(accountID, receiptSuffixLength) + "_" + lastN(millis, receiptSuffixLength)
}

func lastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
