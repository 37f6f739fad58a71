package providers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FlexibleString accepts a JSON string, number or null. Aggregators are
// inconsistent about quoting codes and amounts.
type FlexibleString string

func (fs *FlexibleString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*fs = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*fs = FlexibleString(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*fs = FlexibleString(n.String())
		return nil
	}

	return fmt.Errorf("unable to parse %s as FlexibleString", string(data))
}

func (fs FlexibleString) String() string {
	return string(fs)
}

func (fs FlexibleString) ToInt64() (int64, error) {
	return strconv.ParseInt(string(fs), 10, 64)
}

// Float returns nil for an empty or non-numeric value.
func (fs FlexibleString) Float() *float64 {
	if fs == "" {
		return nil
	}
	f, err := strconv.ParseFloat(string(fs), 64)
	if err != nil {
		return nil
	}
	return &f
}

func (fs FlexibleString) Decimal() (decimal.Decimal, error) {
	if fs == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(string(fs))
}
