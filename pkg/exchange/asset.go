package exchange

import "sync"

// Ticker identifies a registered asset. The reference system encodes tickers
// as fixed-width byte sequences; an interned string type keeps the value
// comparable and map-keyable without carrying that encoding around.
type Ticker string

// Asset is identity metadata only, it never carries quantity. Immutable once
// registered. Exactly one registered asset has IsQuote set; all order prices
// are denominated in that asset.
type Asset struct {
	Ticker  Ticker
	IsQuote bool
}

// AssetRegistry maps tickers to asset identities. Registration is an
// administrative operation; the engine only queries.
type AssetRegistry struct {
	mu     sync.RWMutex
	assets map[Ticker]Asset
	quote  Ticker
}

func NewAssetRegistry() *AssetRegistry {
	return &AssetRegistry{
		assets: make(map[Ticker]Asset),
	}
}

func (r *AssetRegistry) Register(asset Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.assets[asset.Ticker]; ok {
		return ErrDuplicateAsset
	}
	if asset.IsQuote {
		if r.quote != "" {
			return ErrDuplicateQuoteAsset
		}
		r.quote = asset.Ticker
	}
	r.assets[asset.Ticker] = asset
	return nil
}

func (r *AssetRegistry) Resolve(ticker Ticker) (Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	asset, ok := r.assets[ticker]
	if !ok {
		return Asset{}, ErrUnknownAsset
	}
	return asset, nil
}

func (r *AssetRegistry) IsQuote(ticker Ticker) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.quote != "" && r.quote == ticker
}

// QuoteTicker returns the funding asset's ticker, empty until one is registered.
func (r *AssetRegistry) QuoteTicker() Ticker {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.quote
}

// Assets returns the registered assets in no particular order.
func (r *AssetRegistry) Assets() []Asset {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Asset, 0, len(r.assets))
	for _, a := range r.assets {
		out = append(out, a)
	}
	return out
}
