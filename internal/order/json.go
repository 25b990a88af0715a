package order

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"backtestcore/internal/symbol"
)

// legacyFieldAliases maps case-folded legacy field names to the current
// wire field they should be read as: Duration -> TimeInForce and
// DurationValue -> GoodTilDate. Implemented as a normalizing reader rather
// than two parallel schemas.
var legacyFieldAliases = map[string]string{
	"duration":      "timeinforce",
	"durationvalue": "goodtildate",
}

// wireOrder is the JSON shape of Order. Field names are PascalCase; Go's
// encoding/json matches camelCase input case-insensitively against them, so
// both casings round-trip without separate tags.
type wireOrder struct {
	ID                  string
	Symbol              wireSymbol
	Type                string
	Quantity            decimal.Decimal
	CreatedTimeUtc      time.Time
	Status              string
	Tag                 string
	TimeInForce         string
	GoodTilDate         *time.Time `json:",omitempty"`
	BrokerIDs           []string
	PriceAdjustment     string
	LimitPrice          decimal.Decimal
	StopPrice           decimal.Decimal
	TriggerPrice        decimal.Decimal
	TrailingAmount      decimal.Decimal
	TrailingPercent     bool
	LimitOffset         decimal.Decimal
	GroupOrderManagerID string
	LegIndex            int
	StopTriggered       bool
	TriggerTouched      bool
}

type wireSymbol struct {
	CanonicalID  string
	SecurityType string
	Market       string
}

// normalizeKeys lower-cases every top-level JSON object key and rewrites
// legacy aliases to their current name, so a single wireOrder schema can
// read both old and new payloads.
func normalizeKeys(raw map[string]json.RawMessage) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(raw))
	for k, v := range raw {
		lk := strings.ToLower(k)
		if alias, ok := legacyFieldAliases[lk]; ok {
			lk = alias
		}
		out[lk] = v
	}
	return out
}

// rebuildForWireOrder maps each normalized (lower-cased) key onto the
// matching wireOrder field name, so the re-marshal step below lands every
// incoming key regardless of its original casing.
func rebuildForWireOrder(normalized map[string]json.RawMessage) (map[string]json.RawMessage, error) {
	fieldNames := []string{
		"ID", "Symbol", "Type", "Quantity", "CreatedTimeUtc", "Status", "Tag",
		"TimeInForce", "GoodTilDate", "BrokerIDs", "PriceAdjustment",
		"LimitPrice", "StopPrice", "TriggerPrice", "TrailingAmount",
		"TrailingPercent", "LimitOffset", "GroupOrderManagerID", "LegIndex",
		"StopTriggered", "TriggerTouched",
	}
	out := make(map[string]json.RawMessage, len(normalized))
	for _, name := range fieldNames {
		if v, ok := normalized[strings.ToLower(name)]; ok {
			out[name] = v
		}
	}
	return out, nil
}

// MarshalOrder serializes an Order to its canonical JSON wire shape.
func MarshalOrder(o *Order) ([]byte, error) {
	w := wireOrder{
		ID:                  o.ID,
		Symbol:              wireSymbol{CanonicalID: o.Symbol.CanonicalID, SecurityType: o.Symbol.SecurityType.String(), Market: o.Symbol.Market},
		Type:                o.Type.String(),
		Quantity:            o.Quantity,
		CreatedTimeUtc:      o.CreatedTimeUtc.UTC(),
		Status:              o.Status.String(),
		Tag:                 o.Tag,
		TimeInForce:         string(o.TimeInForce),
		BrokerIDs:           o.BrokerIDs,
		LimitPrice:          o.LimitPrice,
		StopPrice:           o.StopPrice,
		TriggerPrice:        o.TriggerPrice,
		TrailingAmount:      o.TrailingAmount,
		TrailingPercent:     o.TrailingPercent,
		LimitOffset:         o.LimitOffset,
		GroupOrderManagerID: o.GroupOrderManagerID,
		LegIndex:            o.LegIndex,
		StopTriggered:       o.StopTriggered(),
		TriggerTouched:      o.TriggerTouched(),
	}
	if o.TimeInForce == GTD && !o.GoodTilDate.IsZero() {
		gtd := o.GoodTilDate.UTC()
		w.GoodTilDate = &gtd
	}
	return json.Marshal(w)
}

// UnmarshalOrder parses the lenient JSON format: field names may be
// camelCase or PascalCase, and the legacy Duration/DurationValue aliases
// are honored.
func UnmarshalOrder(data []byte) (*Order, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("order: decode: %w", err)
	}
	normalized := normalizeKeys(raw)
	fielded, err := rebuildForWireOrder(normalized)
	if err != nil {
		return nil, err
	}
	reencoded, err := json.Marshal(fielded)
	if err != nil {
		return nil, fmt.Errorf("order: re-encode: %w", err)
	}

	var w wireOrder
	if err := json.Unmarshal(reencoded, &w); err != nil {
		return nil, fmt.Errorf("order: decode wire shape: %w", err)
	}

	o := &Order{
		ID:                  w.ID,
		Symbol:              symbol.Symbol{CanonicalID: w.Symbol.CanonicalID, SecurityType: parseSecurityType(w.Symbol.SecurityType), Market: w.Symbol.Market},
		Type:                parseType(w.Type),
		Quantity:            w.Quantity,
		CreatedTimeUtc:      w.CreatedTimeUtc,
		Status:              parseStatus(w.Status),
		Tag:                 w.Tag,
		TimeInForce:         TimeInForce(w.TimeInForce),
		BrokerIDs:           w.BrokerIDs,
		LimitPrice:          w.LimitPrice,
		StopPrice:           w.StopPrice,
		TriggerPrice:        w.TriggerPrice,
		TrailingAmount:      w.TrailingAmount,
		TrailingPercent:     w.TrailingPercent,
		LimitOffset:         w.LimitOffset,
		GroupOrderManagerID: w.GroupOrderManagerID,
		LegIndex:            w.LegIndex,
	}
	if w.GoodTilDate != nil {
		o.GoodTilDate = *w.GoodTilDate
	}
	if w.StopTriggered {
		o.MarkStopTriggered()
	}
	if w.TriggerTouched {
		o.MarkTriggerTouched()
	}
	return o, nil
}

func parseType(s string) Type {
	switch s {
	case "Limit":
		return Limit
	case "StopMarket":
		return StopMarket
	case "StopLimit":
		return StopLimit
	case "LimitIfTouched":
		return LimitIfTouched
	case "TrailingStop":
		return TrailingStop
	case "TrailingStopLimit":
		return TrailingStopLimit
	case "MarketOnOpen":
		return MarketOnOpen
	case "MarketOnClose":
		return MarketOnClose
	case "OptionExercise":
		return OptionExercise
	case "ComboMarket":
		return ComboMarket
	case "ComboLimit":
		return ComboLimit
	case "ComboLegLimit":
		return ComboLegLimit
	default:
		return Market
	}
}

func parseStatus(s string) Status {
	switch s {
	case "New":
		return StatusNew
	case "Submitted":
		return StatusSubmitted
	case "PartiallyFilled":
		return StatusPartiallyFilled
	case "Filled":
		return StatusFilled
	case "Canceled":
		return StatusCanceled
	case "Invalid":
		return StatusInvalid
	default:
		return StatusNone
	}
}

func parseSecurityType(s string) symbol.SecurityType {
	switch s {
	case "Forex":
		return symbol.Forex
	case "Crypto":
		return symbol.Crypto
	case "CryptoFuture":
		return symbol.CryptoFuture
	case "Cfd":
		return symbol.Cfd
	case "Future":
		return symbol.Future
	case "Option":
		return symbol.Option
	case "FutureOption":
		return symbol.FutureOption
	case "IndexOption":
		return symbol.IndexOption
	case "Index":
		return symbol.Index
	default:
		return symbol.Equity
	}
}
