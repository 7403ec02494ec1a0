package domain

// OfferKind classifies a streaming option.
type OfferKind string

const (
	OfferSubscription OfferKind = "subscription"
	OfferRent         OfferKind = "rent"
	OfferBuy          OfferKind = "buy"
	OfferFree         OfferKind = "free"
	OfferAddon        OfferKind = "addon"
)

// Price is an offer price. Amount is kept as a decimal string.
type Price struct {
	Amount    string `json:"amount" yaml:"amount"`
	Currency  string `json:"currency" yaml:"currency"`
	Formatted string `json:"formatted" yaml:"formatted"`
}

// StreamingOption is one way to watch a movie in the US region.
type StreamingOption struct {
	Service     string    `json:"service" yaml:"service"`
	ServiceLogo string    `json:"serviceLogo" yaml:"service_logo"`
	Kind        OfferKind `json:"type" yaml:"type"`
	Link        string    `json:"link" yaml:"link"`
	Price       *Price    `json:"price,omitempty" yaml:"price,omitempty"`
	Quality     *string   `json:"quality,omitempty" yaml:"quality,omitempty"`
}

// OfferGroups is the display grouping of streaming options.
type OfferGroups struct {
	Stream []StreamingOption `json:"stream" yaml:"stream"`
	Addons []StreamingOption `json:"addons" yaml:"addons"`
	Rent   []StreamingOption `json:"rent" yaml:"rent"`
	Buy    []StreamingOption `json:"buy" yaml:"buy"`
}

// Empty reports whether no group has any offer.
func (g OfferGroups) Empty() bool {
	return len(g.Stream) == 0 && len(g.Addons) == 0 && len(g.Rent) == 0 && len(g.Buy) == 0
}
