package models

// Категории записей каталога.
const (
	CategoryMovie = "movie"
	CategoryTV    = "tv"
)

// Genre — жанр каталога.
type Genre struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	IconClass string `json:"icon_class"`
}

// CastMember — актёр в составе карточки каталога.
type CastMember struct {
	ID            int    `json:"id"`
	RealName      string `json:"real_name"`
	Image         string `json:"image,omitempty"`
	CharacterName string `json:"character_name,omitempty"`
}

// Movie — запись каталога: фильм или сериал.
type Movie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Poster      string  `json:"poster"`
	Video       string  `json:"video,omitempty"`
	GenreID     int     `json:"genre_id"`
	GenreName   string  `json:"genre,omitempty"`
	Director    string  `json:"director,omitempty"`
	Year        int     `json:"year,omitempty"`
	Duration    string  `json:"duration,omitempty"`
	Rating      float64 `json:"rating"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category"`
	IsFeatured  bool    `json:"is_featured"`

	// Cast заполняется только в карточке, не в списках.
	Cast []CastMember `json:"cast,omitempty"`
}

// SearchResult — элемент выдачи поиска по каталогу.
type SearchResult struct {
	Title  string `json:"Title"`
	Poster string `json:"Poster"`
	ID     int    `json:"imdbID"`
	Year   int    `json:"Year,omitempty"`
}

// MyListItem — позиция личного списка пользователя. Список не зависит
// от состояния подписки и переживает её разрывы.
type MyListItem struct {
	UserUID string `json:"-"`
	Movie   Movie  `json:"movie"`
}
