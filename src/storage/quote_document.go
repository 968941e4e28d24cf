package storage

import (
	"time"

	"stock-screener/src/models"
)

// quoteDocument is the row/document shape used by the gorm, mongo and redis
// backends. Nullable ratios are pointers so absent stays distinct from 0.
type quoteDocument struct {
	Position           int      `gorm:"column:position;not null;index" bson:"position" json:"position"`
	Ticker             string   `gorm:"column:ticker;primaryKey;size:32" bson:"_id" json:"ticker"`
	Name               string   `gorm:"column:name;size:255" bson:"name" json:"name"`
	Sector             string   `gorm:"column:sector;size:255" bson:"sector" json:"sector"`
	CurrentPrice       float64  `gorm:"column:current_price" bson:"current_price" json:"current_price"`
	PreviousClose      float64  `gorm:"column:previous_close" bson:"previous_close" json:"previous_close"`
	PriceChange        float64  `gorm:"column:price_change" bson:"price_change" json:"price_change"`
	PriceChangePercent float64  `gorm:"column:price_change_percent" bson:"price_change_percent" json:"price_change_percent"`
	MarketCap          string   `gorm:"column:market_cap;size:32" bson:"market_cap" json:"market_cap"`
	Volume             string   `gorm:"column:volume;size:32" bson:"volume" json:"volume"`
	AvgVolume          string   `gorm:"column:avg_volume;size:32" bson:"avg_volume" json:"avg_volume"`
	DayHigh            float64  `gorm:"column:day_high" bson:"day_high" json:"day_high"`
	DayLow             float64  `gorm:"column:day_low" bson:"day_low" json:"day_low"`
	FiftyTwoWeekHigh   float64  `gorm:"column:fifty_two_week_high" bson:"fifty_two_week_high" json:"fifty_two_week_high"`
	FiftyTwoWeekLow    float64  `gorm:"column:fifty_two_week_low" bson:"fifty_two_week_low" json:"fifty_two_week_low"`
	PERatio            *float64 `gorm:"column:pe_ratio" bson:"pe_ratio" json:"pe_ratio"`
	DividendYield      *float64 `gorm:"column:dividend_yield" bson:"dividend_yield" json:"dividend_yield"`
	Beta               *float64 `gorm:"column:beta" bson:"beta" json:"beta"`
	EPS                *float64 `gorm:"column:eps" bson:"eps" json:"eps"`
	RSI                float64  `gorm:"column:rsi" bson:"rsi" json:"rsi"`
	IsPositive         bool     `gorm:"column:is_positive" bson:"is_positive" json:"is_positive"`
	MarketState        string   `gorm:"column:market_state;size:16" bson:"market_state" json:"market_state"`
	LastUpdated        int64    `gorm:"column:last_updated" bson:"last_updated" json:"last_updated"` // unix nanoseconds
}

func (quoteDocument) TableName() string { return "quotes" }

// -----------------------------------------------------------------------------

func toDocument(position int, q models.MQuote) quoteDocument {
	return quoteDocument{
		Position:           position,
		Ticker:             q.Ticker,
		Name:               q.Name,
		Sector:             q.Sector,
		CurrentPrice:       q.CurrentPrice,
		PreviousClose:      q.PreviousClose,
		PriceChange:        q.PriceChange,
		PriceChangePercent: q.PriceChangePercent,
		MarketCap:          q.MarketCapDisplay,
		Volume:             q.VolumeDisplay,
		AvgVolume:          q.AvgVolumeDisplay,
		DayHigh:            q.DayHigh,
		DayLow:             q.DayLow,
		FiftyTwoWeekHigh:   q.FiftyTwoWeekHigh,
		FiftyTwoWeekLow:    q.FiftyTwoWeekLow,
		PERatio:            q.PERatio.Ptr(),
		DividendYield:      q.DividendYield.Ptr(),
		Beta:               q.Beta.Ptr(),
		EPS:                q.EPS.Ptr(),
		RSI:                q.RSI,
		IsPositive:         q.IsPositive,
		MarketState:        string(q.MarketState),
		LastUpdated:        q.LastUpdated.UnixNano(),
	}
}

func toDocuments(quotes []models.MQuote) []quoteDocument {
	docs := make([]quoteDocument, len(quotes))
	for i, q := range quotes {
		docs[i] = toDocument(i, q)
	}
	return docs
}

// -----------------------------------------------------------------------------

func (d quoteDocument) toQuote() models.MQuote {
	return models.MQuote{
		Ticker:             d.Ticker,
		Name:               d.Name,
		Sector:             d.Sector,
		CurrentPrice:       d.CurrentPrice,
		PreviousClose:      d.PreviousClose,
		PriceChange:        d.PriceChange,
		PriceChangePercent: d.PriceChangePercent,
		MarketCapDisplay:   d.MarketCap,
		VolumeDisplay:      d.Volume,
		AvgVolumeDisplay:   d.AvgVolume,
		DayHigh:            d.DayHigh,
		DayLow:             d.DayLow,
		FiftyTwoWeekHigh:   d.FiftyTwoWeekHigh,
		FiftyTwoWeekLow:    d.FiftyTwoWeekLow,
		PERatio:            models.FromPtr(d.PERatio),
		DividendYield:      models.FromPtr(d.DividendYield),
		Beta:               models.FromPtr(d.Beta),
		EPS:                models.FromPtr(d.EPS),
		RSI:                d.RSI,
		IsPositive:         d.IsPositive,
		MarketState:        models.MMarketState(d.MarketState),
		LastUpdated:        time.Unix(0, d.LastUpdated),
	}
}

func fromDocuments(docs []quoteDocument) []models.MQuote {
	quotes := make([]models.MQuote, len(docs))
	for i, d := range docs {
		quotes[i] = d.toQuote()
	}
	return quotes
}
