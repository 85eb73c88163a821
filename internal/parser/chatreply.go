package parser

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/Koncii-co/koncii-wander-guide/internal/model"
)

var fenceRe = regexp.MustCompile("(?s)```(?:json|JSON)?[ \t]*\n?(.*?)```")

// StructureReply разбивает ответ чат-сервиса на текстовые сегменты и группы мест.
//
// Поддерживаются два формата:
//   - {"response": "...", "status": "..."} - места ищутся в JSON-блоках внутри текста;
//   - {"text": [...], "reply": [...]} - элементы reply могут быть строками, местами или массивами мест.
//
// Все, что не удалось распознать, отображается как текст. Ошибок не возвращает.
func StructureReply(raw []byte) model.ChatReply {
	b := &replyBuilder{}
	reply := model.ChatReply{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		var arr []any
		if json.Unmarshal(raw, &arr) == nil {
			b.walk(arr)
		} else {
			b.splitText(string(raw))
		}
		reply.Segments = b.result()
		return reply
	}

	if st, ok := fields["status"]; ok {
		_ = json.Unmarshal(st, &reply.Status)
	}

	_, hasText := fields["text"]
	_, hasReply := fields["reply"]
	switch {
	case hasText || hasReply:
		for _, key := range []string{"text", "reply"} {
			var v any
			if rawVal, ok := fields[key]; ok && json.Unmarshal(rawVal, &v) == nil {
				b.walk(v)
			}
		}
	default:
		var text string
		if rawVal, ok := fields["response"]; ok && json.Unmarshal(rawVal, &text) == nil {
			b.splitText(text)
		}
	}

	reply.Segments = b.result()
	return reply
}

// replyBuilder накапливает сегменты, склеивая подряд идущие места в одну группу.
type replyBuilder struct {
	segments []model.Segment
}

func (b *replyBuilder) result() []model.Segment {
	if b.segments == nil {
		return []model.Segment{}
	}
	return b.segments
}

func (b *replyBuilder) text(s string) {
	s = cleanText(s)
	if s == "" {
		return
	}
	b.segments = append(b.segments, model.Segment{Kind: model.SegmentText, Text: s})
}

func (b *replyBuilder) places(places ...model.Place) {
	if len(places) == 0 {
		return
	}
	if n := len(b.segments); n > 0 && b.segments[n-1].Kind == model.SegmentPlaces {
		b.segments[n-1].Places = append(b.segments[n-1].Places, places...)
		return
	}
	b.segments = append(b.segments, model.Segment{Kind: model.SegmentPlaces, Places: places})
}

// walk обходит значение из полей text/reply.
func (b *replyBuilder) walk(v any) {
	switch val := v.(type) {
	case string:
		b.text(val)
	case map[string]any:
		b.places(placesFrom(val)...)
	case []any:
		for _, item := range val {
			b.walk(item)
		}
	}
}

// splitText выделяет места из JSON-блоков в свободном тексте.
func (b *replyBuilder) splitText(s string) {
	rest := s
	for {
		loc := fenceRe.FindStringSubmatchIndex(rest)
		if loc == nil {
			break
		}
		var v any
		inner := rest[loc[2]:loc[3]]
		if json.Unmarshal([]byte(strings.TrimSpace(inner)), &v) == nil {
			if found := collectPlaces(v); len(found) > 0 {
				b.inline(rest[:loc[0]])
				b.places(found...)
				rest = rest[loc[1]:]
				continue
			}
		}
		// блок не содержит мест - оставляем его текстом вместе с предшествующим фрагментом
		b.inline(rest[:loc[1]])
		rest = rest[loc[1]:]
	}
	b.inline(rest)
}

// inline ищет JSON-массивы и объекты мест прямо в тексте (без ограждения ```).
func (b *replyBuilder) inline(s string) {
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] != '[' && s[i] != '{' {
			continue
		}
		dec := json.NewDecoder(strings.NewReader(s[i:]))
		var v any
		if err := dec.Decode(&v); err != nil {
			continue
		}
		found := collectPlaces(v)
		if len(found) == 0 {
			continue
		}
		b.text(s[start:i])
		b.places(found...)
		i += int(dec.InputOffset()) - 1
		start = i + 1
	}
	b.text(s[start:])
}

// collectPlaces возвращает места из массива, объекта-места или обертки {"places": [...]}.
func collectPlaces(v any) []model.Place {
	switch val := v.(type) {
	case map[string]any:
		return placesFrom(val)
	case []any:
		var out []model.Place
		for _, item := range val {
			if m, ok := item.(map[string]any); ok {
				out = append(out, placesFrom(m)...)
			}
		}
		return out
	}
	return nil
}

func placesFrom(m map[string]any) []model.Place {
	for _, key := range []string{"places", "reply", "results"} {
		if nested, ok := m[key].([]any); ok {
			return collectPlaces(nested)
		}
	}
	if p, ok := placeFromMap(m); ok {
		return []model.Place{p}
	}
	return nil
}

func placeFromMap(m map[string]any) (model.Place, bool) {
	name := cleanText(firstString(m, "name", "title"))
	if name == "" {
		return model.Place{}, false
	}
	p := model.Place{
		Name:       name,
		Address:    cleanText(firstString(m, "address", "formatted_address", "vicinity", "location")),
		Rating:     ratingText(m),
		Highlights: highlights(m),
		ImageURL:   cleanURL(firstString(m, "image_url", "imageUrl", "image", "photo_url", "photoUrl", "photo")),
	}
	p.Coordinates = placeCoordinates(m)
	return p, true
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

func placeCoordinates(m map[string]any) *model.Coordinates {
	candidates := []any{m["coordinates"], m["coords"], m["location"]}
	if g, ok := m["geometry"].(map[string]any); ok {
		candidates = append(candidates, g["location"])
	}
	candidates = append(candidates, m)
	for _, c := range candidates {
		cm, ok := c.(map[string]any)
		if !ok {
			continue
		}
		lat, okLat := numberOf(cm, "lat", "latitude")
		lng, okLng := numberOf(cm, "lng", "lon", "long", "longitude")
		if okLat && okLng {
			return &model.Coordinates{Lat: lat, Lng: lng}
		}
	}
	return nil
}

func numberOf(m map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			return v, true
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func ratingText(m map[string]any) string {
	if s := firstString(m, "rating_text", "ratingText"); s != "" {
		return cleanText(s)
	}
	var rating string
	switch v := m["rating"].(type) {
	case float64:
		rating = strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		rating = cleanText(v)
	}
	if rating == "" {
		return ""
	}
	if n, ok := numberOf(m, "reviews", "review_count", "reviewCount", "user_ratings_total"); ok && n > 0 {
		rating += " (" + strconv.Itoa(int(n)) + " reviews)"
	}
	return rating
}

func highlights(m map[string]any) []string {
	for _, k := range []string{"highlights", "highlight", "tags"} {
		switch v := m[k].(type) {
		case string:
			if s := cleanText(v); s != "" {
				return []string{s}
			}
		case []any:
			var out []string
			for _, item := range v {
				if s, ok := item.(string); ok {
					if s = cleanText(s); s != "" {
						out = append(out, s)
					}
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}
