package streaming

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
	"github.com/varoOP/fliq/internal/domain"
)

type showResponse struct {
	StreamingOptions map[string][]option `json:"streamingOptions"`
}

type option struct {
	Service struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		ImageSet *struct {
			LightThemeImage string `json:"lightThemeImage"`
			DarkThemeImage  string `json:"darkThemeImage"`
		} `json:"imageSet"`
	} `json:"service"`
	Type  string `json:"type"`
	Link  string `json:"link"`
	Price *struct {
		Amount    amount `json:"amount"`
		Currency  string `json:"currency"`
		Formatted string `json:"formatted"`
	} `json:"price"`
	Quality *string `json:"quality"`
}

func (o option) normalize() domain.StreamingOption {
	opt := domain.StreamingOption{
		Service: o.Service.Name,
		Kind:    domain.OfferKind(o.Type),
		Link:    o.Link,
		Quality: o.Quality,
	}

	if set := o.Service.ImageSet; set != nil {
		opt.ServiceLogo = set.DarkThemeImage
		if opt.ServiceLogo == "" {
			opt.ServiceLogo = set.LightThemeImage
		}
	}

	if o.Price != nil {
		opt.Price = &domain.Price{
			Amount:    string(o.Price.Amount),
			Currency:  o.Price.Currency,
			Formatted: o.Price.Formatted,
		}
	}

	return opt
}

// amount accepts a JSON number or string and keeps the decimal text.
type amount string

func (a *amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = amount(s)
		return nil
	}

	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return errors.Wrapf(err, "invalid price amount %s", data)
	}
	*a = amount(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}
