package model

// Place - структурированная рекомендация (точка интереса) из ответа чат-консьержа.
type Place struct {
	Name        string       `json:"name"`
	Address     string       `json:"address,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Rating      string       `json:"rating,omitempty"` // рейтинг как текст, например "4.5" или "4.7/5 (120 reviews)"
	Highlights  []string     `json:"highlights,omitempty"`
	ImageURL    string       `json:"image_url,omitempty"`
}

// Виды сегментов ответа.
const (
	SegmentText   = "text"
	SegmentPlaces = "places"
)

// Segment - часть ответа консьержа: либо markdown-текст, либо группа мест.
type Segment struct {
	Kind   string  `json:"kind"`
	Text   string  `json:"text,omitempty"`
	Places []Place `json:"places,omitempty"`
}

// ChatReply - ответ консьержа, разбитый на сегменты для отображения.
type ChatReply struct {
	Segments []Segment `json:"segments"`
	Status   string    `json:"status,omitempty"`
}

// Places возвращает все места из ответа в порядке следования.
func (r ChatReply) Places() []Place {
	var out []Place
	for _, s := range r.Segments {
		out = append(out, s.Places...)
	}
	return out
}
