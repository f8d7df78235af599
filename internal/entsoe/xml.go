package entsoe

import (
	"encoding/xml"
	"fmt"
	"sort"
	"time"

	"gridwatch/internal/metrics"
	"gridwatch/internal/models"
)

// ResultKind distinguishes the legitimate response shapes: a priced
// publication, an acknowledgement that no data is published yet, or a body
// that is neither.
type ResultKind int

const (
	ResultPrices ResultKind = iota
	ResultNoData
	ResultMalformed
)

const noDataReasonCode = "999"

// ParseResult is the typed outcome of decoding one ENTSO-E response body.
type ParseResult struct {
	Kind       ResultKind
	Currency   string
	Resolution string
	Points     []models.PricePoint
	ReasonCode string
	ReasonText string
	Detail     string
}

type publicationMarketDocument struct {
	XMLName    xml.Name     `xml:"Publication_MarketDocument"`
	MRID       string       `xml:"mRID"`
	TimeSeries []timeSeries `xml:"TimeSeries"`
}

type timeSeries struct {
	Currency    string   `xml:"currency_Unit.name"`
	MeasureUnit string   `xml:"price_Measure_Unit.name"`
	Periods     []period `xml:"Period"`
}

type period struct {
	TimeInterval timeInterval `xml:"timeInterval"`
	Resolution   string       `xml:"resolution"`
	Points       []point      `xml:"Point"`
}

type timeInterval struct {
	Start string `xml:"start"`
	End   string `xml:"end"`
}

type point struct {
	Position int     `xml:"position"`
	Price    float64 `xml:"price.amount"`
}

type acknowledgementMarketDocument struct {
	XMLName xml.Name    `xml:"Acknowledgement_MarketDocument"`
	Reasons []ackReason `xml:"Reason"`
}

type ackReason struct {
	Code string `xml:"code"`
	Text string `xml:"text"`
}

// ParseDocument decodes a raw response body for the given zone. The API
// returns HTTP 200 for both priced publications and no-data acknowledgements,
// so the body shape alone decides the outcome.
func ParseDocument(raw []byte, zoneCode string) ParseResult {
	var pub publicationMarketDocument
	if err := xml.Unmarshal(raw, &pub); err == nil {
		return extractPrices(&pub, zoneCode)
	}

	var ack acknowledgementMarketDocument
	if err := xml.Unmarshal(raw, &ack); err == nil {
		for _, reason := range ack.Reasons {
			if reason.Code == noDataReasonCode {
				return ParseResult{Kind: ResultNoData, ReasonCode: reason.Code, ReasonText: reason.Text}
			}
		}
		return ParseResult{
			Kind:   ResultMalformed,
			Detail: fmt.Sprintf("unexpected acknowledgement reasons: %v", ack.Reasons),
		}
	}

	prefix := raw
	if len(prefix) > 200 {
		prefix = prefix[:200]
	}
	return ParseResult{
		Kind:   ResultMalformed,
		Detail: fmt.Sprintf("body is neither a publication nor an acknowledgement document, starts with: %s", prefix),
	}
}

func extractPrices(doc *publicationMarketDocument, zoneCode string) ParseResult {
	if len(doc.TimeSeries) == 0 {
		return ParseResult{Kind: ResultMalformed, Detail: "publication document without time series"}
	}

	result := ParseResult{Kind: ResultPrices, Currency: doc.TimeSeries[0].Currency}
	if result.Currency == "" {
		result.Currency = "EUR"
	}

	for _, ts := range doc.TimeSeries {
		currency := ts.Currency
		if currency == "" {
			currency = "EUR"
		}
		for _, p := range ts.Periods {
			points, err := expandPeriod(&p, zoneCode)
			if err != nil {
				return ParseResult{Kind: ResultMalformed, Detail: err.Error()}
			}
			if result.Resolution == "" {
				result.Resolution = p.Resolution
			}
			for i := range points {
				points[i].Currency = currency
			}
			result.Points = append(result.Points, points...)
		}
	}

	// Zones that publish mixed resolutions return several periods; keep the
	// merged output in timestamp order.
	sort.Slice(result.Points, func(i, j int) bool {
		return result.Points[i].Timestamp.Before(result.Points[j].Timestamp)
	})

	return result
}

// expandPeriod converts 1-based point positions into absolute UTC timestamps:
// start + (position-1) * resolution. The arithmetic is deliberately blind to
// DST, so 23- and 25-point days expand without special cases. Interior gaps
// are forward-filled with the previous position's price.
func expandPeriod(p *period, zoneCode string) ([]models.PricePoint, error) {
	start, err := parseTimestamp(p.TimeInterval.Start)
	if err != nil {
		return nil, fmt.Errorf("invalid period start %q: %w", p.TimeInterval.Start, err)
	}
	end, err := parseTimestamp(p.TimeInterval.End)
	if err != nil {
		return nil, fmt.Errorf("invalid period end %q: %w", p.TimeInterval.End, err)
	}
	resolution, err := parseResolution(p.Resolution)
	if err != nil {
		return nil, err
	}

	expected := int(end.Sub(start) / resolution)
	if expected <= 0 {
		return nil, nil
	}

	byPosition := make(map[int]float64, len(p.Points))
	for _, pt := range p.Points {
		byPosition[pt.Position] = pt.Price
	}

	points := make([]models.PricePoint, 0, expected)
	var previous float64
	havePrevious := false
	gapsFilled := 0

	for position := 1; position <= expected; position++ {
		priceMWh, ok := byPosition[position]
		if !ok {
			if !havePrevious {
				return nil, ErrMissingFirstPosition
			}
			priceMWh = previous
			gapsFilled++
		}
		previous = priceMWh
		havePrevious = true

		timestamp := start.Add(time.Duration(position-1) * resolution)
		points = append(points, models.PricePointFromMWh(timestamp, zoneCode, priceMWh, p.Resolution))
	}

	if gapsFilled > 0 {
		metrics.RecordGapsFilled(zoneCode, gapsFilled)
	}

	return points, nil
}

// parseResolution maps the ENTSO-E resolution tags to durations. Anything
// outside the day-ahead resolutions is rejected.
func parseResolution(resolution string) (time.Duration, error) {
	switch resolution {
	case models.ResolutionQuarterHour:
		return 15 * time.Minute, nil
	case models.ResolutionHalfHour:
		return 30 * time.Minute, nil
	case models.ResolutionHour, "PT1H":
		return time.Hour, nil
	default:
		return 0, fmt.Errorf("unsupported resolution %q", resolution)
	}
}

// parseTimestamp accepts RFC3339 and the secondless variant the API sometimes
// emits ("2025-12-30T23:00Z").
func parseTimestamp(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02T15:04Z07:00", value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
