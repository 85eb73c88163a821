package parser

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/Koncii-co/koncii-wander-guide/internal/model"
)

// AirbnbSearchFunction - имя функции, в ответе которой лежат структурированные результаты поиска.
const AirbnbSearchFunction = "airbnb_search"

const defaultListingName = "Airbnb Listing"

var (
	a11yRatingRe = regexp.MustCompile(`(\d+\.?\d*) out of 5 average rating, (\d+) reviews?`)
	textRatingRe = regexp.MustCompile(`(\d+\.?\d*) out of 5 \((\d+) reviews?\)`)
	textPriceRe  = regexp.MustCompile(`\$([\d,]+(?:\.\d+)?)\s*(?:[A-Z]{3}\s+)?per night\s*\(\$([\d,]+(?:\.\d+)?)\s*(?:[A-Z]{3}\s+)?total\)`)
	textNameRe   = regexp.MustCompile(`^\*\s+\*\*(.+)\*\*$`)
	mdLinkRe     = regexp.MustCompile(`\((https?://[^)\s]+)\)`)
	bareURLRe    = regexp.MustCompile(`https?://[^\s)\]]+`)
)

// searchResponse - ответ сервиса поиска жилья.
type searchResponse struct {
	Response          string             `json:"response"`
	Status            string             `json:"status"`
	FunctionResponses []functionResponse `json:"function_responses"`
}

type functionResponse struct {
	Name     string `json:"name"`
	Response struct {
		Result struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		} `json:"result"`
	} `json:"response"`
}

type searchPayload struct {
	SearchResults []json.RawMessage `json:"searchResults"`
}

type searchResult struct {
	ID                 looseString `json:"id"`
	URL                looseString `json:"url"`
	AvgRatingA11yLabel looseString `json:"avgRatingA11yLabel"`
	Badges             looseString `json:"badges"`
	DemandStayListing  struct {
		Description struct {
			Name struct {
				Localized looseString `json:"localizedStringWithTranslationPreference"`
			} `json:"name"`
		} `json:"description"`
		Location struct {
			Coordinate struct {
				Latitude  looseFloat `json:"latitude"`
				Longitude looseFloat `json:"longitude"`
			} `json:"coordinate"`
		} `json:"location"`
	} `json:"demandStayListing"`
	StructuredDisplayPrice struct {
		PrimaryLine struct {
			AccessibilityLabel looseString `json:"accessibilityLabel"`
		} `json:"primaryLine"`
		SecondaryLine struct {
			AccessibilityLabel looseString `json:"accessibilityLabel"`
		} `json:"secondaryLine"`
		ExplanationData struct {
			PriceDetails looseString `json:"priceDetails"`
		} `json:"explanationData"`
	} `json:"structuredDisplayPrice"`
	StructuredContent struct {
		PrimaryLine     looseString `json:"primaryLine"`
		SecondaryLine   looseString `json:"secondaryLine"`
		MapCategoryInfo looseString `json:"mapCategoryInfo"`
	} `json:"structuredContent"`
}

// ParseListings извлекает варианты жилья из ответа сервиса поиска.
// Сначала ищет структурированный JSON в ответе функции airbnb_search,
// иначе разбирает текстовое поле response. Никогда не возвращает nil.
func ParseListings(raw []byte) []model.Listing {
	var resp searchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		var textOnly struct {
			Response string `json:"response"`
		}
		if json.Unmarshal(raw, &textOnly) == nil {
			return ParseListingsText(textOnly.Response)
		}
		return ParseListingsText(string(raw))
	}
	if listings, ok := structuredListings(resp.FunctionResponses); ok {
		return listings
	}
	return ParseListingsText(resp.Response)
}

func structuredListings(responses []functionResponse) ([]model.Listing, bool) {
	for _, fr := range responses {
		if fr.Name != AirbnbSearchFunction {
			continue
		}
		content := fr.Response.Result.Content
		if len(content) == 0 || strings.TrimSpace(content[0].Text) == "" {
			return nil, false
		}
		var payload searchPayload
		if err := json.Unmarshal([]byte(content[0].Text), &payload); err != nil || payload.SearchResults == nil {
			return nil, false
		}
		listings := make([]model.Listing, 0, len(payload.SearchResults))
		for _, item := range payload.SearchResults {
			var r searchResult
			if err := json.Unmarshal(item, &r); err != nil {
				continue
			}
			listings = append(listings, r.toListing())
		}
		return listings, true
	}
	return nil, false
}

func (r searchResult) toListing() model.Listing {
	l := model.Listing{
		ID:               string(r.ID),
		Name:             cleanText(string(r.DemandStayListing.Description.Name.Localized)),
		URL:              cleanURL(string(r.URL)),
		PricePerNight:    ExtractPrice(string(r.StructuredDisplayPrice.PrimaryLine.AccessibilityLabel)),
		TotalPrice:       ExtractPrice(string(r.StructuredDisplayPrice.SecondaryLine.AccessibilityLabel)),
		Badges:           cleanText(string(r.Badges)),
		BedInfo:          cleanText(string(r.StructuredContent.PrimaryLine)),
		HostInfo:         cleanText(string(r.StructuredContent.MapCategoryInfo)),
		FreeCancellation: strings.Contains(string(r.StructuredContent.SecondaryLine), "Free cancellation"),
		PriceBreakdown:   string(r.StructuredDisplayPrice.ExplanationData.PriceDetails),
		Coordinates: model.Coordinates{
			Lat: float64(r.DemandStayListing.Location.Coordinate.Latitude),
			Lng: float64(r.DemandStayListing.Location.Coordinate.Longitude),
		},
	}
	if l.Name == "" {
		l.Name = defaultListingName
	}
	if m := a11yRatingRe.FindStringSubmatch(string(r.AvgRatingA11yLabel)); m != nil {
		l.Rating, l.ReviewCount = parseRating(m[1], m[2])
	}
	return l
}

// ParseListingsText разбирает markdown-список вариантов жилья. Строка "*   **Название**"
// начинает вариант, вложенные строки Rating:, Price: и Link: заполняют рейтинг, цены и ссылку.
func ParseListingsText(text string) []model.Listing {
	listings := []model.Listing{}
	var current *model.Listing
	flush := func() {
		if current != nil && current.Name != "" {
			listings = append(listings, *current)
		}
		current = nil
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case textNameRe.MatchString(line):
			flush()
			name := cleanText(strings.ReplaceAll(textNameRe.FindStringSubmatch(line)[1], "**", ""))
			current = &model.Listing{ID: shortID(), Name: name}
		case current == nil:
			continue
		case strings.Contains(line, "Rating:"):
			if m := textRatingRe.FindStringSubmatch(line); m != nil {
				current.Rating, current.ReviewCount = parseRating(m[1], m[2])
			}
		case strings.Contains(line, "Price:"):
			if m := textPriceRe.FindStringSubmatch(line); m != nil {
				current.PricePerNight = parseAmount(m[1])
				current.TotalPrice = parseAmount(m[2])
			}
		case strings.Contains(line, "Link:"):
			current.URL = linkFrom(line[strings.Index(line, "Link:")+len("Link:"):])
		}
	}
	flush()
	return listings
}

func linkFrom(s string) string {
	if m := mdLinkRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	if m := bareURLRe.FindString(s); m != "" {
		return m
	}
	return strings.TrimSpace(strings.Trim(s, "* "))
}

func parseRating(rating, reviews string) (*float64, *int) {
	r, err := strconv.ParseFloat(rating, 64)
	if err != nil {
		return nil, nil
	}
	n, err := strconv.Atoi(reviews)
	if err != nil {
		return &r, nil
	}
	return &r, &n
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
}

// looseString принимает строку, а любое другое JSON-значение хранит как компактный JSON.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = looseString(str)
		return nil
	}
	if string(b) == "null" {
		*s = ""
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, b); err != nil {
		return nil
	}
	*s = looseString(buf.String())
	return nil
}

// looseFloat принимает число или строку с числом; остальное превращается в 0.
type looseFloat float64

func (f *looseFloat) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	*f = looseFloat(toFloat(v))
	return nil
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}
