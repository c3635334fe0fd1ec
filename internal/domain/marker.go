package domain

// ActionType - действие на глифе маркера
type ActionType string

const (
	ActionAdd    ActionType = "add"
	ActionDelete ActionType = "delete"
)

// Marker - входные данные маркера для адаптера карты
type Marker struct {
	Position    Coordinate
	Title       string
	Description string
	ImageURL    string
	ActionType  ActionType

	// OnAction вызывается по клику на глиф (+ или ×)
	OnAction func()
	// OnInfoWindowClick вызывается по клику на тело маркера или окна
	OnInfoWindowClick func()
}

// InfoWindowContent - содержимое информационного окна маркера
type InfoWindowContent struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	ImageAlt    string     `json:"image_alt,omitempty"`
	ActionType  ActionType `json:"action_type"`
	Glyph       string     `json:"glyph"`
	GlyphColor  string     `json:"glyph_color"`
	GlyphLabel  string     `json:"glyph_label"`
}

// BuildInfoWindowContent - общая разметка окна для обоих провайдеров
func BuildInfoWindowContent(m Marker) InfoWindowContent {
	content := InfoWindowContent{
		Title:       m.Title,
		Description: m.Description,
		ImageURL:    m.ImageURL,
		ActionType:  m.ActionType,
	}
	if content.Title == "" {
		content.Title = UntitledPlace
	}
	if content.ImageURL != "" {
		content.ImageAlt = m.Title
		if content.ImageAlt == "" {
			content.ImageAlt = "预览图片"
		}
	}

	if m.ActionType == ActionAdd {
		content.Glyph = "+"
		content.GlyphColor = "#22c55e"
		content.GlyphLabel = "添加"
	} else {
		content.ActionType = ActionDelete
		content.Glyph = "×"
		content.GlyphColor = "#ef4444"
		content.GlyphLabel = "删除"
	}
	return content
}

// MarkerKind - тип объекта маркера у провайдера
type MarkerKind string

const (
	MarkerKindStandard MarkerKind = "standard"
	MarkerKindAdvanced MarkerKind = "advanced"
	MarkerKindLegacy   MarkerKind = "legacy"
)

// MarkerView - снимок маркера на карте
type MarkerView struct {
	Index           int               `json:"index"`
	Position        Coordinate        `json:"position"`
	Title           string            `json:"title"`
	Kind            MarkerKind        `json:"kind"`
	InfoWindow      InfoWindowContent `json:"info_window"`
	InfoWindowOpen  bool              `json:"info_window_open"`
	ShowCloseButton bool              `json:"show_close_button"`
}

// MapView - снимок состояния экземпляра карты для отрисовки клиентом
type MapView struct {
	ID          string       `json:"id"`
	Provider    ProviderName `json:"provider"`
	ContainerID string       `json:"container_id"`
	Center      Coordinate   `json:"center"`
	Zoom        int          `json:"zoom"`
	Markers     []MarkerView `json:"markers"`
	Destroyed   bool         `json:"destroyed"`
}
